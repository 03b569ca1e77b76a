package player

import (
	engine "github.com/Ape/hanabi-bot/engine"
	"github.com/sirupsen/logrus"
)

// CommonIndex is the PlayerIndex of the shared-knowledge perspective.
const CommonIndex = -1

var logger = logrus.StandardLogger()

// Player is one perspective's complete belief state: a thought per drawn
// card, the hypothetical stack progress implied by committed cards, link
// groups, and open waiting connections. One instance exists per seat plus a
// common-knowledge instance (PlayerIndex == CommonIndex) representing what
// is mutually known.
type Player struct {
	PlayerIndex int

	Thoughts []*Card // indexed by order

	// AllPossible/AllInferred track identities still live for undrawn or
	// untouched cards; fully-accounted identities are removed here so new
	// draws start from the narrowed sets.
	AllPossible engine.IdentitySet
	AllInferred engine.IdentitySet

	HypoStacks         []int
	UnknownPlays       map[int]struct{}
	Links              []Link
	WaitingConnections []*WaitingConnection
}

// New creates a perspective at game start, spanning the full deck.
func New(playerIndex int, variant *engine.Variant) *Player {
	return &Player{
		PlayerIndex:  playerIndex,
		AllPossible:  variant.AllPossible(),
		AllInferred:  variant.AllPossible(),
		HypoStacks:   make([]int, variant.NumSuits()),
		UnknownPlays: map[int]struct{}{},
	}
}

// NewCommon creates the common-knowledge perspective.
func NewCommon(variant *engine.Variant) *Player {
	return New(CommonIndex, variant)
}

// IsCommon reports whether this is the shared perspective.
func (p *Player) IsCommon() bool { return p.PlayerIndex == CommonIndex }

// Clone returns a deep copy. Thoughts, links and waiting connections are
// never aliased between the copy and the original.
func (p *Player) Clone() *Player {
	out := *p
	out.Thoughts = make([]*Card, len(p.Thoughts))
	for i, t := range p.Thoughts {
		out.Thoughts[i] = t.Clone()
	}
	out.HypoStacks = append([]int(nil), p.HypoStacks...)
	out.UnknownPlays = make(map[int]struct{}, len(p.UnknownPlays))
	for o := range p.UnknownPlays {
		out.UnknownPlays[o] = struct{}{}
	}
	out.Links = make([]Link, len(p.Links))
	for i, l := range p.Links {
		out.Links[i] = Link{
			Orders:     append([]int(nil), l.Orders...),
			Identities: l.Identities,
			Promised:   l.Promised,
		}
	}
	out.WaitingConnections = make([]*WaitingConnection, len(p.WaitingConnections))
	for i, wc := range p.WaitingConnections {
		out.WaitingConnections[i] = wc.Clone()
	}
	return &out
}

// Thought returns the belief record for a card order.
func (p *Player) Thought(order int) *Card {
	return p.Thoughts[order]
}

// OnDraw creates the thought for a newly drawn card. Perspectives other than
// the owner and the common one see the real identity immediately; the owner
// (and common knowledge) start from the perspective's live identity sets.
func (p *Player) OnDraw(st *engine.State, a engine.Action) {
	if a.Order != len(p.Thoughts) {
		logger.Warnf("player %d: draw order %d out of sequence (have %d thoughts)",
			p.PlayerIndex, a.Order, len(p.Thoughts))
	}
	thought := &Card{
		Order:    a.Order,
		Possible: p.AllPossible,
		Inferred: p.AllInferred,
		DrawnAt:  st.TurnCount,
	}
	if id, ok := a.Identity(); ok && !p.IsCommon() && p.PlayerIndex != a.PlayerIndex {
		single := engine.SetOf(st.Variant.NumSuits(), id)
		thought.Possible = single
		thought.Inferred = single
	}
	p.Thoughts = append(p.Thoughts, thought)
}

// Identify pins a card's identity in this perspective. With inferOnly set
// only the inferred set narrows (the identity is an inference, not certain
// knowledge).
func (p *Player) Identify(st *engine.State, order int, id engine.Identity, inferOnly bool) {
	thought := p.Thought(order)
	single := engine.SetOf(st.Variant.NumSuits(), id)
	if !inferOnly {
		thought.Possible = thought.Possible.Intersect(single)
		if thought.Possible.IsEmpty() {
			// The revealed fact contradicts prior hard knowledge; trust it.
			thought.Possible = single
		}
	}
	thought.Inferred = single.Intersect(thought.Possible)
	if thought.Inferred.IsEmpty() {
		thought.Inferred = thought.Possible
	}
	thought.Reset = false
}

// ThinksPlayable returns the orders in the player's own hand that this
// perspective believes are safely playable right now: every remaining
// inferred identity plays on the current stacks.
func (p *Player) ThinksPlayable(st *engine.State, playerIndex int) []int {
	var out []int
	for _, order := range st.Hands[playerIndex] {
		t := p.Thought(order)
		if t.Reset || t.Inferred.IsEmpty() || !t.Saved() {
			continue
		}
		playable := true
		for _, id := range t.Inferred.Identities() {
			if !st.IsPlayable(id) {
				playable = false
				break
			}
		}
		if playable {
			out = append(out, order)
		}
	}
	return out
}

// ThinksTrash returns the orders in the player's own hand that this
// perspective can prove useless: every possible identity is basic trash.
func (p *Player) ThinksTrash(st *engine.State, playerIndex int) []int {
	var out []int
	for _, order := range st.Hands[playerIndex] {
		t := p.Thought(order)
		source := t.Possible
		if t.Saved() && !t.Reset && !t.Inferred.IsEmpty() {
			source = t.Inferred
		}
		trash := true
		for _, id := range source.Identities() {
			if !st.IsBasicTrash(id) {
				trash = false
				break
			}
		}
		if trash {
			out = append(out, order)
		}
	}
	return out
}
