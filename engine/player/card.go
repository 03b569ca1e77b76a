// Package player implements per-perspective belief tracking: one Player per
// observing seat plus a common-knowledge instance, each holding a thought
// per drawn card. It is the analogue of an agent's private state — the
// convention layer reads and narrows these beliefs but the authoritative
// table state never depends on them.
package player

import engine "github.com/Ape/hanabi-bot/engine"

// CardClue records one clue that touched a card.
type CardClue struct {
	Type  engine.ClueType
	Value int
	Giver int
	Turn  int
}

// Card is the belief record ("thought") one perspective holds about a single
// drawn card, keyed by the card's order. Possible holds every identity not
// yet ruled out; Inferred is the convention-narrowed subset of Possible.
//
// Inferred ⊆ Possible holds after every update step. When convention
// reasoning empties Inferred, the card is reset: Inferred is rebuilt from
// Possible and the Reset flag records the collapse.
type Card struct {
	Order    int
	Possible engine.IdentitySet
	Inferred engine.IdentitySet

	Clued      bool
	NewlyClued bool
	Finessed   bool
	ChopMoved  bool
	Reset      bool

	Clues []CardClue

	DrawnAt int // turn count at draw time
}

// Clone returns a deep copy of the thought.
func (c *Card) Clone() *Card {
	out := *c
	out.Clues = append([]CardClue(nil), c.Clues...)
	return &out
}

// Touched reports whether the card has been marked by a clue.
func (c *Card) Touched() bool { return c.Clued }

// Saved reports whether convention commits the card as known-useful.
func (c *Card) Saved() bool { return c.Clued || c.Finessed || c.ChopMoved }

// ID returns the identity when Possible is a singleton.
func (c *Card) ID() (engine.Identity, bool) { return c.Possible.Single() }

// InferredID returns the identity when Inferred is a singleton.
func (c *Card) InferredID() (engine.Identity, bool) { return c.Inferred.Single() }

// Matches reports whether the belief admits the identity; with infer set it
// checks the inferred set instead of the possible set.
func (c *Card) Matches(id engine.Identity, infer bool) bool {
	if infer {
		return c.Inferred.Has(id)
	}
	return c.Possible.Has(id)
}
