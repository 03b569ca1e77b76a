package hgroup

import (
	engine "github.com/Ape/hanabi-bot/engine"
	"github.com/Ape/hanabi-bot/engine/player"
)

// interpretPlay reveals the played card to every perspective and settles the
// waiting connections that referenced it.
func (g *Game) interpretPlay(a engine.Action) {
	id, ok := a.Identity()
	if !ok {
		logger.Warnf("table %d: play of order %d carries no identity", g.TableID, a.Order)
		g.refresh()
		return
	}

	for _, p := range g.allPerspectives() {
		p.Identify(g.State, a.Order, id, false)
	}

	g.resolveWaiting(a.Order, id)
	g.refresh()
}

// resolveWaiting advances, completes or demolishes common waiting
// connections after the card at order resolved as id.
func (g *Game) resolveWaiting(order int, id engine.Identity) {
	kept := g.Common.WaitingConnections[:0]
	for _, wc := range g.Common.WaitingConnections {
		if wc.FocusOrder == order {
			// The focus itself resolved; the hypothesis is settled
			// either way.
			if id != wc.Inference {
				logger.Infof("table %d: focus %d resolved as %v, not the waited-on %v",
					g.TableID, order, id, wc.Inference)
			}
			continue
		}
		if !wc.RemainingDependsOn(order) {
			kept = append(kept, wc)
			continue
		}

		next := wc.Connections[wc.ConnIndex]
		if next.Order != order {
			// The chain was consumed out of order; the reading is dead.
			logger.Infof("table %d: connection for %v broke out of order at card %d",
				g.TableID, wc.Inference, order)
			g.demolishWaiting(wc)
			continue
		}
		if next.Identity != id {
			logger.Infof("table %d: connecting card %d was %v, expected %v",
				g.TableID, order, id, next.Identity)
			g.demolishWaiting(wc)
			continue
		}

		wc.ConnIndex++
		if wc.ConnIndex < len(wc.Connections) {
			kept = append(kept, wc)
			continue
		}

		// Chain complete; commit the inference on the focus.
		single := engine.SetOf(g.State.Variant.NumSuits(), wc.Inference)
		for _, p := range []*player.Player{g.Common, g.Players[wc.Target]} {
			ft := p.Thought(wc.FocusOrder)
			narrowed := ft.Inferred.Intersect(single)
			if narrowed.IsEmpty() {
				p.ResetCard(wc.FocusOrder)
			} else {
				ft.Inferred = narrowed
			}
		}
	}
	g.Common.WaitingConnections = kept
}

// demolishWaiting discards a falsified hypothesis and rebuilds the focus
// card's inferences from its surviving interpretations.
func (g *Game) demolishWaiting(wc *player.WaitingConnection) {
	for _, p := range []*player.Player{g.Common, g.Players[wc.Target]} {
		p.RestoreElim(g.State, wc.FocusOrder)
	}
}

// interpretDiscard reveals the discarded card, checks the discard against
// the beliefs we held about it, and repairs waiting connections whose
// chained card just left the hand.
func (g *Game) interpretDiscard(a engine.Action) {
	st := g.State
	id, ok := a.Identity()
	if !ok {
		logger.Warnf("table %d: discard of order %d carries no identity", g.TableID, a.Order)
		g.refresh()
		return
	}

	common := g.Common.Thought(a.Order)
	wasSaved := common.Saved()
	preInferred := g.Players[a.PlayerIndex].Thought(a.Order).Inferred
	wasTrash := g.knownTrash(a.Order)

	if !wasSaved {
		st.EarlyGame = false
	}

	for _, p := range g.allPerspectives() {
		p.Identify(st, a.Order, id, false)
	}

	// A misplay, or a clued card discarded against its own inferences,
	// means our reading of some earlier action was wrong. Replay with the
	// identity pinned from the draw so the clues reinterpret correctly.
	violation := a.Failed ||
		(wasSaved && !preInferred.IsEmpty() && !preInferred.Has(id) && !wasTrash)
	if violation && !g.alreadyIdentified(a.Order) && g.drawActionIndex(a.Order) != -1 {
		rewound := g.Rewind(g.drawActionIndex(a.Order)+1, engine.Action{
			Type:      engine.ActionIdentify,
			Order:     a.Order,
			SuitIndex: id.SuitIndex,
			Rank:      id.Rank,
		})
		if rewound {
			return
		}
	}

	if g.repairWaitingAfterDiscard(a.Order, id) {
		return
	}
	g.refresh()
}

// repairWaitingAfterDiscard handles a connecting card leaving a hand via
// discard. A unique duplicate elsewhere absorbs the connection (sarcastic
// discard); multiple candidates stay unresolved until a later action
// disambiguates. With no candidate the reading is dead: when a sibling
// reading from the same clue is still alive only this chain is dropped,
// otherwise the clue is replayed with an ignore override. Returns true when
// the repair path already took over the post-processing.
func (g *Game) repairWaitingAfterDiscard(order int, id engine.Identity) bool {
	siblings := map[int]int{}
	for _, wc := range g.Common.WaitingConnections {
		siblings[wc.ActionIndex]++
	}

	kept := g.Common.WaitingConnections[:0]
	for i, wc := range g.Common.WaitingConnections {
		if wc.FocusOrder == order {
			siblings[wc.ActionIndex]--
			continue
		}
		if !wc.RemainingDependsOn(order) {
			kept = append(kept, wc)
			continue
		}

		candidates := g.sarcasticCandidates(order, id, wc.FocusOrder)
		switch len(candidates) {
		case 1:
			target := candidates[0]
			for ci := range wc.Connections {
				if wc.Connections[ci].Order == order {
					wc.Connections[ci].Order = target
					wc.Connections[ci].Reacting = g.holderOf(target)
					wc.Connections[ci].Type = player.ConnPrompt
				}
			}
			kept = append(kept, wc)
		case 0:
			// Nothing can absorb the identity; the interpretation that
			// demanded it was wrong.
			siblings[wc.ActionIndex]--
			if siblings[wc.ActionIndex] > 0 {
				// A sibling reading of the same clue is still alive; only
				// this chain dies.
				g.demolishWaiting(wc)
				continue
			}
			// Replay the clue with this chain entry excluded from the
			// connection search.
			kept = append(kept, g.Common.WaitingConnections[i+1:]...)
			g.Common.WaitingConnections = kept
			if g.Rewind(wc.ActionIndex, engine.Action{
				Type:      engine.ActionIgnore,
				Order:     order,
				ConnIndex: wc.RealConnectionsBefore(order),
			}) {
				return true
			}
			g.refresh()
			return true
		default:
			kept = append(kept, wc)
		}
	}
	g.Common.WaitingConnections = kept
	return false
}

// sarcasticCandidates returns the orders of saved cards elsewhere that could
// commonly be the discarded identity. The focus of the connection under
// repair is excluded: it cannot connect for itself.
func (g *Game) sarcasticCandidates(discarded int, id engine.Identity, focus int) []int {
	var out []int
	for _, hand := range g.State.Hands {
		for _, order := range hand {
			if order == discarded || order == focus {
				continue
			}
			t := g.Common.Thought(order)
			if t.Clued && t.Possible.Has(id) {
				out = append(out, order)
			}
		}
	}
	return out
}

// holderOf returns the seat currently holding the card at order, or -1.
func (g *Game) holderOf(order int) int {
	for seat, hand := range g.State.Hands {
		for _, o := range hand {
			if o == order {
				return seat
			}
		}
	}
	return -1
}

// knownTrash reports whether the card is commonly provable useless.
func (g *Game) knownTrash(order int) bool {
	t := g.Common.Thought(order)
	source := t.Possible
	if t.Saved() && !t.Reset && !t.Inferred.IsEmpty() {
		source = t.Inferred
	}
	for _, id := range source.Identities() {
		if !g.State.IsBasicTrash(id) {
			return false
		}
	}
	return true
}
