package hgroup

import (
	engine "github.com/Ape/hanabi-bot/engine"
	"github.com/Ape/hanabi-bot/engine/player"
)

// ChopIndex returns the hand slot of the player's chop: the oldest card not
// protected by a clue or a chop move. Returns -1 when every card is
// protected. Hands are ordered newest-first, so the chop is the highest
// qualifying slot.
func (g *Game) ChopIndex(playerIndex int) int {
	hand := g.State.Hands[playerIndex]
	for i := len(hand) - 1; i >= 0; i-- {
		thought := g.Common.Thought(hand[i])
		if !thought.Clued && !thought.ChopMoved {
			return i
		}
	}
	return -1
}

// ChopOrder returns the order of the player's chop card, or -1.
func (g *Game) ChopOrder(playerIndex int) int {
	i := g.ChopIndex(playerIndex)
	if i == -1 {
		return -1
	}
	return g.State.Hands[playerIndex][i]
}

// FindFocus determines which touched card carries the clue's meaning: the
// leftmost newly-touched card when one exists, otherwise the leftmost
// touched card. Cards already fully committed never reset the focus.
func (g *Game) FindFocus(target int, list []int) int {
	touched := map[int]struct{}{}
	for _, order := range list {
		touched[order] = struct{}{}
	}
	focus := -1
	for _, order := range g.State.Hands[target] { // newest first
		if _, ok := touched[order]; !ok {
			continue
		}
		if focus == -1 {
			focus = order
		}
		if g.Common.Thought(order).NewlyClued {
			return order
		}
	}
	return focus
}

// FocusPossibility is one consistent reading of a clue: the focused card is
// Identity, provided the chained Connections play out in order. Save
// readings carry no connections.
type FocusPossibility struct {
	engine.Identity
	Connections []player.Connection
	Save        bool
}

// FindFocusPossible enumerates the (suit, rank) interpretations consistent
// with the variant's touch rules for the given clue, chaining connections
// through other hands. When the same identity is reachable both as a play
// and as a save, the save reading wins.
func (g *Game) FindFocusPossible(a engine.Action) []FocusPossibility {
	focusOrder := g.FindFocus(a.Target, a.List)
	focusIsChop := focusOrder != -1 && focusOrder == g.chopBeforeClue(a)

	var possibilities []FocusPossibility
	switch a.Clue.Type {
	case engine.ClueColour:
		for _, suit := range g.colourSuits(a.Clue.Value) {
			possibilities = append(possibilities, g.colourPossibilities(a, suit, focusIsChop)...)
		}
	case engine.ClueRank:
		possibilities = append(possibilities, g.rankPossibilities(a, focusIsChop)...)
	}

	// Deduplicate: later entries (saves) override earlier ones.
	byID := map[engine.Identity]int{}
	var out []FocusPossibility
	for _, fp := range possibilities {
		if i, ok := byID[fp.Identity]; ok {
			out[i] = fp
			continue
		}
		byID[fp.Identity] = len(out)
		out = append(out, fp)
	}
	return out
}

// chopBeforeClue returns the order that was on chop when the clue arrived.
// Newly-applied clued flags are ignored so the pre-clue chop is recovered.
func (g *Game) chopBeforeClue(a engine.Action) int {
	newlyClued := map[int]struct{}{}
	for _, order := range a.List {
		if g.Common.Thought(order).NewlyClued {
			newlyClued[order] = struct{}{}
		}
	}
	hand := g.State.Hands[a.Target]
	for i := len(hand) - 1; i >= 0; i-- {
		order := hand[i]
		thought := g.Common.Thought(order)
		if thought.ChopMoved {
			continue
		}
		if _, isNew := newlyClued[order]; isNew {
			return order
		}
		if !thought.Clued {
			return order
		}
	}
	return -1
}

// colourSuits returns the suits a colour clue speaks about: the named suit
// plus every rainbow-like suit, each interpreted independently.
func (g *Game) colourSuits(value int) []int {
	suits := []int{value}
	for i, s := range g.State.Variant.Suits {
		if s.AllClueColours && i != value {
			suits = append(suits, i)
		}
	}
	return suits
}

// colourPossibilities extends a connection chain for one suit of a colour
// clue, then enumerates save readings when the chop was focused.
func (g *Game) colourPossibilities(a engine.Action, suit int, focusIsChop bool) []FocusPossibility {
	st := g.State
	var out []FocusPossibility

	next := st.PlayStacks[suit] + 1
	var conns []player.Connection
	for next <= st.MaxRanks[suit] {
		id := engine.Identity{SuitIndex: suit, Rank: next}
		conn, ok := g.findConnecting(a.Giver, a.Target, id, len(conns))
		if !ok {
			break
		}
		if g.connectionAmbiguous(conn, engine.Identity{SuitIndex: suit, Rank: next + 1}) {
			break
		}
		if conn.Type != player.ConnKnown {
			// With an uncertain connection the focus could itself be
			// this rank; record the prefix as a candidate.
			out = append(out, FocusPossibility{
				Identity:    id,
				Connections: append([]player.Connection(nil), conns...),
			})
		}
		conns = append(conns, conn)
		next++
	}
	if next <= st.MaxRanks[suit] {
		out = append(out, FocusPossibility{
			Identity:    engine.Identity{SuitIndex: suit, Rank: next},
			Connections: conns,
		})
	}

	if focusIsChop {
		out = append(out, g.colourSaves(a, suit, next)...)
	}
	return out
}

// colourSaves enumerates critical saves above the play-chain endpoint.
// Rainbow-like suits cannot be saved with colour alone unless the clue
// filled in at least two new cards; a single touch is too ambiguous.
func (g *Game) colourSaves(a engine.Action, suit, endpoint int) []FocusPossibility {
	st := g.State
	if st.Variant.Suits[suit].AllClueColours && len(g.newlyTouched(a)) < 2 {
		return nil
	}
	var out []FocusPossibility
	for rank := endpoint + 1; rank <= engine.MaxRank; rank++ {
		id := engine.Identity{SuitIndex: suit, Rank: rank}
		if st.IsCritical(id) && st.Variant.Touches(id, a.Clue) {
			out = append(out, FocusPossibility{Identity: id, Save: true})
		}
	}
	return out
}

// rankPossibilities enumerates play and save readings for a rank clue,
// iterating per suit since a rank is shared across suits.
func (g *Game) rankPossibilities(a engine.Action, focusIsChop bool) []FocusPossibility {
	st := g.State
	rank := a.Clue.Value
	var out []FocusPossibility

	for suit := range st.Variant.Suits {
		id := engine.Identity{SuitIndex: suit, Rank: rank}
		if !st.Variant.Touches(id, a.Clue) {
			continue
		}

		// Chain from the stack up towards the clued rank.
		next := st.PlayStacks[suit] + 1
		var conns []player.Connection
		for next < rank && next <= st.MaxRanks[suit] {
			connID := engine.Identity{SuitIndex: suit, Rank: next}
			conn, ok := g.findConnecting(a.Giver, a.Target, connID, len(conns))
			if !ok {
				break
			}
			if g.connectionAmbiguous(conn, id) {
				break
			}
			conns = append(conns, conn)
			next++
		}
		if next == rank && rank <= st.MaxRanks[suit] {
			out = append(out, FocusPossibility{Identity: id, Connections: conns})
		}

		if focusIsChop {
			if st.IsCritical(id) {
				out = append(out, FocusPossibility{Identity: id, Save: true})
			} else if rank == 2 && g.uniqueTwo(id) && !st.IsBasicTrash(id) {
				// A 2 whose other copy is nowhere visible is saved
				// regardless of the criticality threshold.
				out = append(out, FocusPossibility{Identity: id, Save: true})
			}
		}
	}
	return out
}

// connectionAmbiguous reports the disambiguation hazard: a newly-clued
// connecting card whose own possibilities admit the focused candidate
// identity would make the chain a false positive, so it is not extended.
func (g *Game) connectionAmbiguous(conn player.Connection, focusCandidate engine.Identity) bool {
	if conn.Type == player.ConnFinesse {
		return false
	}
	thought := g.Common.Thought(conn.Order)
	return thought.NewlyClued && thought.Possible.Has(focusCandidate)
}

// newlyTouched returns the orders of the clue's list that were untouched
// before this action.
func (g *Game) newlyTouched(a engine.Action) []int {
	var out []int
	for _, order := range a.List {
		if g.Common.Thought(order).NewlyClued {
			out = append(out, order)
		}
	}
	return out
}

// uniqueTwo reports whether no other copy of this rank-2 identity is
// visible in any hand.
func (g *Game) uniqueTwo(id engine.Identity) bool {
	st := g.State
	count := 0
	for _, hand := range st.Hands {
		for _, order := range hand {
			if actual, ok := st.Deck[order].ID(); ok && actual == id {
				count++
			}
		}
	}
	return count <= 1
}
