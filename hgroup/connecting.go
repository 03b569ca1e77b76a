package hgroup

import (
	engine "github.com/Ape/hanabi-bot/engine"
	"github.com/Ape/hanabi-bot/engine/player"
)

// findConnecting searches other hands for a card that will produce the
// given identity before the focus plays. In order of preference:
//
//	known   — a card commonly known to be the identity already
//	prompt  — the leftmost clued card whose possibilities admit it
//	finesse — a hand's finesse-position card that actually is it
//
// The giver's own hand is never used for prompts or finesses (the giver
// cannot see it), and the clue target cannot connect for themselves.
// connIndex is the position in the chain under construction; orders a
// pending ignore override excludes from that position onward are skipped.
// A finesse connection marks the card finessed in the hypothesis.
func (g *Game) findConnecting(giver, target int, id engine.Identity, connIndex int) (player.Connection, bool) {
	st := g.State

	for playerIndex, hand := range st.Hands {
		for _, order := range hand {
			if g.ignored(order, connIndex) {
				continue
			}
			thought := g.Common.Thought(order)
			if !thought.Saved() {
				continue
			}
			if known, ok := thought.ID(); ok && known == id {
				return player.Connection{Type: player.ConnKnown, Reacting: playerIndex, Order: order, Identity: id}, true
			}
			if inferred, ok := thought.InferredID(); ok && inferred == id && g.actualIs(order, id) {
				return player.Connection{Type: player.ConnKnown, Reacting: playerIndex, Order: order, Identity: id}, true
			}
		}
	}

	for playerIndex := range st.Hands {
		if playerIndex == giver || playerIndex == target {
			continue
		}
		if order, ok := g.promptOrder(playerIndex, id, connIndex); ok {
			return player.Connection{Type: player.ConnPrompt, Reacting: playerIndex, Order: order, Identity: id}, true
		}
	}

	for playerIndex := range st.Hands {
		if playerIndex == giver || playerIndex == target {
			continue
		}
		if order, ok := g.finessePosition(playerIndex, connIndex); ok && g.actualIs(order, id) {
			g.Common.Thought(order).Finessed = true
			return player.Connection{Type: player.ConnFinesse, Reacting: playerIndex, Order: order, Identity: id}, true
		}
	}

	return player.Connection{}, false
}

// promptOrder returns the leftmost clued card in the hand whose common
// possibilities admit the identity. A candidate that is actually a
// different card would misfire, so it blocks the prompt instead.
func (g *Game) promptOrder(playerIndex int, id engine.Identity, connIndex int) (int, bool) {
	for _, order := range g.State.Hands[playerIndex] {
		if g.ignored(order, connIndex) {
			continue
		}
		thought := g.Common.Thought(order)
		if !thought.Clued || thought.Reset {
			continue
		}
		if _, known := thought.ID(); known {
			continue // fully known cards connect as "known", not prompts
		}
		if !thought.Possible.Has(id) {
			continue
		}
		if !g.actualIs(order, id) {
			return 0, false
		}
		return order, true
	}
	return 0, false
}

// finessePosition returns the order of the hand's leftmost card not yet
// touched by a clue or an earlier finesse.
func (g *Game) finessePosition(playerIndex, connIndex int) (int, bool) {
	for _, order := range g.State.Hands[playerIndex] {
		if g.ignored(order, connIndex) {
			continue
		}
		thought := g.Common.Thought(order)
		if !thought.Clued && !thought.Finessed {
			return order, true
		}
	}
	return 0, false
}

// actualIs reports whether the card's ground truth is known to be the
// identity. Cards whose identity we cannot see never verify.
func (g *Game) actualIs(order int, id engine.Identity) bool {
	actual, known := g.State.Deck[order].ID()
	return known && actual == id
}

// ignored reports whether a pending ignore override excludes the card from
// serving at this chain position. The override records the position of the
// failed connection; earlier positions may still use the card.
func (g *Game) ignored(order, connIndex int) bool {
	ci, ok := g.ignoreOrders[order]
	return ok && connIndex >= ci
}
