// Package engine implements the convention-independent model of a Hanabi
// game: card identities and possibility sets, the variant rule table, the
// authoritative table state, and the inbound/outbound action records.
//
// Everything here is deliberately value-oriented and free of convention
// logic; belief tracking lives in engine/player and convention reasoning in
// hgroup.
package engine

import "fmt"

// MaxClueTokens is the clue-token ceiling.
const MaxClueTokens = 8

// MaxStrikes is the number of strikes that ends the game.
const MaxStrikes = 3

// ActualCard is the ground truth for one drawn card. SuitIndex/Rank are -1
// while the identity is hidden from us (our own draws). Order is the global
// draw sequence number and is never reused: played and discarded cards keep
// their order as a key into historical belief structures.
type ActualCard struct {
	Order     int
	SuitIndex int
	Rank      int
	Owner     int
}

// ID returns the card's identity and whether it is known.
func (c ActualCard) ID() (Identity, bool) {
	if c.SuitIndex < 0 || c.Rank < MinRank {
		return Identity{}, false
	}
	return Identity{SuitIndex: c.SuitIndex, Rank: c.Rank}, true
}

// State holds the authoritative, convention-independent facts of the table.
// It is mutated only by Apply, in action-log order; hypothetical exploration
// operates on Clone copies.
type State struct {
	Variant        *Variant
	NumPlayers     int
	OurPlayerIndex int

	PlayStacks    []int   // per suit: highest rank played
	DiscardStacks [][]int // per suit, per rank-1: discarded copies
	MaxRanks      []int   // per suit: highest rank still reachable

	ClueTokens int
	Strikes    int

	Hands [][]int     // per player: card orders, index 0 = newest
	Deck  []ActualCard // indexed by order

	TurnCount          int
	CurrentPlayerIndex int
	CardsLeft          int

	// EndgameTurns counts down the final round once the deck is empty;
	// -1 while the deck still has cards.
	EndgameTurns int

	// EarlyGame is set until the first unclued card is discarded.
	EarlyGame bool
}

// NewState initializes the table for a fresh game.
func NewState(numPlayers, ourPlayerIndex int, variant *Variant) *State {
	numSuits := variant.NumSuits()
	st := &State{
		Variant:            variant,
		NumPlayers:         numPlayers,
		OurPlayerIndex:     ourPlayerIndex,
		PlayStacks:         make([]int, numSuits),
		DiscardStacks:      make([][]int, numSuits),
		MaxRanks:           make([]int, numSuits),
		ClueTokens:         MaxClueTokens,
		Hands:              make([][]int, numPlayers),
		CardsLeft:          variant.DeckSize(),
		CurrentPlayerIndex: -1,
		EndgameTurns:       -1,
		EarlyGame:          true,
	}
	for s := 0; s < numSuits; s++ {
		st.DiscardStacks[s] = make([]int, MaxRank)
		st.MaxRanks[s] = MaxRank
	}
	for p := 0; p < numPlayers; p++ {
		st.Hands[p] = []int{}
	}
	return st
}

// Clone returns a deep copy of the state.
func (st *State) Clone() *State {
	out := *st
	out.PlayStacks = append([]int(nil), st.PlayStacks...)
	out.MaxRanks = append([]int(nil), st.MaxRanks...)
	out.DiscardStacks = make([][]int, len(st.DiscardStacks))
	for s, stack := range st.DiscardStacks {
		out.DiscardStacks[s] = append([]int(nil), stack...)
	}
	out.Hands = make([][]int, len(st.Hands))
	for p, hand := range st.Hands {
		out.Hands[p] = append([]int(nil), hand...)
	}
	out.Deck = append([]ActualCard(nil), st.Deck...)
	return &out
}

// ---------------------------------------------------------------------------
// Action application
// ---------------------------------------------------------------------------

// Apply mutates the state for one action record. Belief updates are not
// performed here; perspectives consume the same action afterwards.
func (st *State) Apply(a Action) error {
	switch a.Type {
	case ActionDraw:
		return st.applyDraw(a)
	case ActionPlay:
		return st.applyPlay(a)
	case ActionDiscard:
		return st.applyDiscard(a)
	case ActionClue:
		return st.applyClue(a)
	case ActionTurn:
		st.TurnCount = a.Num
		st.CurrentPlayerIndex = a.CurrentPlayerIndex
		if st.EndgameTurns > 0 {
			st.EndgameTurns--
		}
		return nil
	case ActionGameOver:
		st.CurrentPlayerIndex = -1
		return nil
	case ActionIdentify, ActionIgnore, ActionFinesse:
		// Rewind-internal actions carry no authoritative facts.
		return nil
	}
	return fmt.Errorf("unhandled action type %d", a.Type)
}

func (st *State) applyDraw(a Action) error {
	if a.PlayerIndex < 0 || a.PlayerIndex >= st.NumPlayers {
		return fmt.Errorf("draw for unknown player %d", a.PlayerIndex)
	}
	if a.Order != len(st.Deck) {
		return fmt.Errorf("draw order %d out of sequence (expected %d)", a.Order, len(st.Deck))
	}
	st.Deck = append(st.Deck, ActualCard{
		Order:     a.Order,
		SuitIndex: a.SuitIndex,
		Rank:      a.Rank,
		Owner:     a.PlayerIndex,
	})
	st.Hands[a.PlayerIndex] = append([]int{a.Order}, st.Hands[a.PlayerIndex]...)
	st.CardsLeft--
	if st.CardsLeft == 0 {
		// Everyone gets one more turn after the final draw.
		st.EndgameTurns = st.NumPlayers + 1
	}
	return nil
}

func (st *State) applyPlay(a Action) error {
	if err := st.removeFromHand(a.PlayerIndex, a.Order); err != nil {
		return err
	}
	st.revealCard(a)
	st.PlayStacks[a.SuitIndex] = a.Rank
	if a.Rank == MaxRank && st.ClueTokens < MaxClueTokens {
		st.ClueTokens++
	}
	return nil
}

func (st *State) applyDiscard(a Action) error {
	if err := st.removeFromHand(a.PlayerIndex, a.Order); err != nil {
		return err
	}
	st.revealCard(a)
	st.DiscardStacks[a.SuitIndex][a.Rank-1]++
	if a.Failed {
		st.Strikes++
	} else if st.ClueTokens < MaxClueTokens {
		st.ClueTokens++
	}

	// A rank dies when its last copy hits the discard pile unplayed.
	id := Identity{SuitIndex: a.SuitIndex, Rank: a.Rank}
	if st.DiscardStacks[a.SuitIndex][a.Rank-1] == st.Variant.TotalCopies(id) &&
		st.PlayStacks[a.SuitIndex] < a.Rank && st.MaxRanks[a.SuitIndex] >= a.Rank {
		st.MaxRanks[a.SuitIndex] = a.Rank - 1
	}
	return nil
}

func (st *State) applyClue(a Action) error {
	if st.ClueTokens <= 0 {
		return fmt.Errorf("clue given with no clue tokens")
	}
	if a.Target < 0 || a.Target >= st.NumPlayers {
		return fmt.Errorf("clue target %d out of range", a.Target)
	}
	st.ClueTokens--
	return nil
}

// revealCard records a now-public identity on the deck entry. Our own cards
// become known when played or discarded.
func (st *State) revealCard(a Action) {
	card := &st.Deck[a.Order]
	if card.SuitIndex < 0 {
		card.SuitIndex = a.SuitIndex
		card.Rank = a.Rank
	}
}

func (st *State) removeFromHand(playerIndex, order int) error {
	hand := st.Hands[playerIndex]
	for i, o := range hand {
		if o == order {
			st.Hands[playerIndex] = append(append([]int{}, hand[:i]...), hand[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("card %d not in player %d's hand", order, playerIndex)
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// Score returns the number of cards played so far.
func (st *State) Score() int {
	total := 0
	for _, stack := range st.PlayStacks {
		total += stack
	}
	return total
}

// MaxScore returns the highest score still reachable given dead ranks.
func (st *State) MaxScore() int {
	total := 0
	for _, max := range st.MaxRanks {
		total += max
	}
	return total
}

// Pace is the remaining slack before discards start costing points:
// score + cardsLeft + numPlayers - maxScore.
func (st *State) Pace() int {
	return st.Score() + st.CardsLeft + st.NumPlayers - st.MaxScore()
}

// PlayableAway returns the identity's distance above the top of its suit's
// play stack. A card is playable exactly when PlayableAway is 1; values of
// zero or below mean the identity has already been played.
func (st *State) PlayableAway(id Identity) int {
	return id.Rank - st.PlayStacks[id.SuitIndex]
}

// IsPlayable reports whether the identity plays on the current stacks.
func (st *State) IsPlayable(id Identity) bool {
	return st.PlayableAway(id) == 1
}

// IsBasicTrash reports whether the identity can never be usefully played:
// already played, or above its suit's max reachable rank.
func (st *State) IsBasicTrash(id Identity) bool {
	return id.Rank <= st.PlayStacks[id.SuitIndex] || id.Rank > st.MaxRanks[id.SuitIndex]
}

// IsCritical reports whether discarding the identity's last remaining copy
// would permanently kill it.
func (st *State) IsCritical(id Identity) bool {
	if st.IsBasicTrash(id) {
		return false
	}
	return st.Variant.TotalCopies(id)-st.DiscardStacks[id.SuitIndex][id.Rank-1] == 1
}

// BaseCount returns how many copies of the identity have left play: the
// discarded copies plus the played one.
func (st *State) BaseCount(id Identity) int {
	count := st.DiscardStacks[id.SuitIndex][id.Rank-1]
	if st.PlayStacks[id.SuitIndex] >= id.Rank {
		count++
	}
	return count
}

// TouchedOrders returns the orders in the target's hand that a clue marks,
// in hand order (newest first). Requires known identities, so it only makes
// sense for hands we can see.
func (st *State) TouchedOrders(target int, clue Clue) []int {
	var out []int
	for _, order := range st.Hands[target] {
		if id, ok := st.Deck[order].ID(); ok && st.Variant.Touches(id, clue) {
			out = append(out, order)
		}
	}
	return out
}

// HandSlot returns the position of the order within the player's hand, or -1.
func (st *State) HandSlot(playerIndex, order int) int {
	for i, o := range st.Hands[playerIndex] {
		if o == order {
			return i
		}
	}
	return -1
}
