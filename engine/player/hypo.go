package player

import engine "github.com/Ape/hanabi-bot/engine"

// UpdateHypoStacks recomputes, as a fixed point, how far each suit's stack
// could progress if every card this perspective has committed to (clued,
// finessed or chop-moved) were played in a valid order. Plays whose identity
// this perspective cannot pin down are collected in UnknownPlays.
//
// The computation rebuilds HypoStacks and UnknownPlays from scratch each
// call, so repeated calls on an unchanged belief state are idempotent.
// Termination is guaranteed: each pass either advances a stack or adds an
// unknown play, and both domains are finite.
func (p *Player) UpdateHypoStacks(st *engine.State) {
	numSuits := st.Variant.NumSuits()
	hypo := append([]int(nil), st.PlayStacks...)
	unknown := map[int]struct{}{}
	attributed := map[int]struct{}{}
	claimed := engine.EmptyIdentitySet(numSuits)
	ignore := p.fakeWaitingOrders(st)

	linked := map[int]*Link{}
	for i := range p.Links {
		for _, order := range p.Links[i].Orders {
			linked[order] = &p.Links[i]
		}
	}

	for changed := true; changed; {
		changed = false
		for _, hand := range st.Hands {
			for _, order := range hand {
				if _, done := unknown[order]; done {
					continue
				}
				if _, done := attributed[order]; done {
					continue
				}
				if _, skip := ignore[order]; skip {
					continue
				}
				thought := p.Thought(order)
				if !thought.Saved() || thought.Reset {
					continue
				}
				link, isLinked := linked[order]
				if isLinked && !link.Promised {
					// An unresolved link member cannot be attributed
					// to any single suit.
					continue
				}

				candidates := thought.Inferred.Subtract(claimed)
				if candidates.IsEmpty() {
					continue
				}
				delayed := true
				for _, id := range candidates.Identities() {
					if id.Rank != hypo[id.SuitIndex]+1 {
						delayed = false
						break
					}
				}
				if !delayed {
					continue
				}

				if id, ok := candidates.Single(); ok {
					if !p.advance(st, hypo, &claimed, order, id) {
						continue
					}
					changed = true
					continue
				}

				unknown[order] = struct{}{}
				changed = true

				// The last member of a promised link resolves the whole
				// group as one advance using the link's declared identity.
				// The advanced member moves from the unknown pool to the
				// stack so the play is counted once.
				if isLinked && link.Promised && p.lastUnresolved(st, link, unknown, order) {
					if id, ok := link.Identities.Single(); ok && id.Rank == hypo[id.SuitIndex]+1 {
						if p.advance(st, hypo, &claimed, order, id) {
							delete(unknown, order)
							attributed[order] = struct{}{}
						}
					}
				}
			}
		}
	}

	p.HypoStacks = hypo
	p.UnknownPlays = unknown
}

// advance pushes one hypothetical stack. The common perspective must never
// contradict the deck's ground truth or double-claim an identity; such
// violations are reported as warnings and the advance is skipped.
func (p *Player) advance(st *engine.State, hypo []int, claimed *engine.IdentitySet, order int, id engine.Identity) bool {
	if p.IsCommon() {
		if actual, known := st.Deck[order].ID(); known && actual != id {
			logger.Warnf("hypo stacks: card %d believed %v but is %v, skipping advance", order, id, actual)
			return false
		}
	}
	if claimed.Has(id) {
		logger.Warnf("hypo stacks: identity %v already claimed by another play, skipping card %d", id, order)
		return false
	}
	hypo[id.SuitIndex] = id.Rank
	*claimed = claimed.With(id)
	return true
}

// lastUnresolved reports whether order is the only member of the link that
// is neither already off the table nor counted as an unknown play.
func (p *Player) lastUnresolved(st *engine.State, link *Link, unknown map[int]struct{}, order int) bool {
	for _, member := range link.Orders {
		if member == order {
			continue
		}
		if _, ok := unknown[member]; ok {
			continue
		}
		if st.HandSlot(st.Deck[member].Owner, member) == -1 {
			continue // played or discarded
		}
		return false
	}
	return true
}

// fakeWaitingOrders returns the connection orders of waiting connections
// that are predicted to be proven false: the focus's ground truth already
// contradicts the held inference, so the chain must not inflate the stacks.
func (p *Player) fakeWaitingOrders(st *engine.State) map[int]struct{} {
	out := map[int]struct{}{}
	for _, wc := range p.WaitingConnections {
		actual, known := st.Deck[wc.FocusOrder].ID()
		if !known || actual == wc.Inference {
			continue
		}
		for _, conn := range wc.Connections[wc.ConnIndex:] {
			out[conn.Order] = struct{}{}
		}
	}
	return out
}

// HypoScore is the score the perspective believes is already locked in:
// the hypothetical stacks plus the unidentified committed plays.
func (p *Player) HypoScore() int {
	total := len(p.UnknownPlays)
	for _, stack := range p.HypoStacks {
		total += stack
	}
	return total
}
