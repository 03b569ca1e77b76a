package player

import engine "github.com/Ape/hanabi-bot/engine"

// CardElim narrows possibility sets using hard visibility counts: once every
// copy of an identity is accounted for by the play/discard piles plus cards
// certainly known to be that identity, no other card can be it.
//
// Sources in the perspective holder's own hand only count when their
// possible set is a singleton; an inferred singleton on a self-card is a
// convention assumption, and self-elimination from assumptions is unsound.
func (p *Player) CardElim(st *engine.State) {
	for changed := true; changed; {
		changed = false
		for _, id := range st.Variant.AllPossible().Identities() {
			certain := map[int]struct{}{}
			for _, hand := range st.Hands {
				for _, order := range hand {
					if single, ok := p.Thought(order).Possible.Single(); ok && single == id {
						certain[order] = struct{}{}
					}
				}
			}
			if st.BaseCount(id)+len(certain) < st.Variant.TotalCopies(id) {
				continue
			}
			if p.AllPossible.Has(id) {
				p.AllPossible = p.AllPossible.Without(id)
				p.AllInferred = p.AllInferred.Without(id)
			}
			for _, hand := range st.Hands {
				for _, order := range hand {
					if _, ok := certain[order]; ok {
						continue
					}
					thought := p.Thought(order)
					if !thought.Possible.Has(id) {
						continue
					}
					thought.Possible = thought.Possible.Without(id)
					thought.Inferred = thought.Inferred.Without(id)
					changed = true
					if thought.Possible.IsEmpty() {
						logger.Warnf("player %d: card %d lost all possibilities eliminating %v",
							p.PlayerIndex, order, id)
						thought.Possible = engine.SetOf(st.Variant.NumSuits(), id)
					}
					if thought.Inferred.IsEmpty() && !thought.Reset {
						p.ResetCard(order)
					}
				}
			}
		}
	}
}

// GoodTouchElim applies the good-touch assumption: clued cards are not
// duplicates of identities already played, discarded or locked into other
// touched cards. It narrows inferred sets only; hard possibilities are left
// to CardElim.
//
// Link groups are treated as a single bag holding one copy of each identity
// in the group's pool: members never eliminate each other, and the bag
// contributes one visible copy per pooled identity.
func (p *Player) GoodTouchElim(st *engine.State) {
	for changed := true; changed; {
		changed = false
		for _, id := range st.Variant.AllPossible().Identities() {
			matches := map[int]struct{}{}
			for _, hand := range st.Hands {
				for _, order := range hand {
					thought := p.Thought(order)
					if !thought.Saved() || thought.Reset {
						continue
					}
					single, ok := thought.InferredID()
					if !ok || single != id {
						continue
					}
					// Self-cards count only on hard knowledge.
					if !p.IsCommon() && st.Deck[order].Owner == p.PlayerIndex {
						if _, hard := thought.ID(); !hard {
							continue
						}
					}
					matches[order] = struct{}{}
				}
			}

			visible := st.BaseCount(id) + len(matches)
			for _, link := range p.Links {
				if link.Identities.Has(id) {
					visible++
				}
			}
			if visible < st.Variant.TotalCopies(id) {
				continue
			}

			for _, hand := range st.Hands {
				for _, order := range hand {
					if _, ok := matches[order]; ok {
						continue
					}
					thought := p.Thought(order)
					if !thought.Saved() || !thought.Inferred.Has(id) {
						continue
					}
					if p.linkedWith(order, id) {
						continue
					}
					thought.Inferred = thought.Inferred.Without(id)
					changed = true
					if thought.Inferred.IsEmpty() {
						p.ResetCard(order)
					}
				}
			}
		}
	}
}

// linkedWith reports whether the order belongs to a link pooling the
// identity, in which case in-group elimination is forbidden.
func (p *Player) linkedWith(order int, id engine.Identity) bool {
	for _, link := range p.Links {
		if link.Identities.Has(id) && link.Contains(order) {
			return true
		}
	}
	return false
}

// ResetCard rebuilds a collapsed inferred set from the possible set. The
// Reset flag makes the collapse observable: it signals a convention
// contradiction, not a crash.
func (p *Player) ResetCard(order int) {
	thought := p.Thought(order)
	thought.Inferred = thought.Possible
	thought.Reset = true
	thought.Finessed = false
}

// RestoreElim rebuilds a card's inferred set from first principles when new
// information proves an earlier elimination premature. Rather than patching
// the previous set, it replays the perspective's live inferences and the
// card's own clue history from scratch.
func (p *Player) RestoreElim(st *engine.State, order int) {
	thought := p.Thought(order)
	inferred := thought.Possible.Intersect(p.AllInferred)
	for _, clue := range thought.Clues {
		inferred = inferred.Intersect(st.Variant.TouchSet(engine.Clue{Type: clue.Type, Value: clue.Value}))
	}
	if inferred.IsEmpty() {
		inferred = thought.Possible
	}
	thought.Inferred = inferred
	thought.Reset = false
}

// FindLinks recomputes link groups: any set of clued cards sharing an
// identical inferred set whose size equals the set's cardinality is
// collectively resolved. Ordinary links are not persisted across refreshes;
// promised links survive and keep their members out of new groups.
func (p *Player) FindLinks(st *engine.State) {
	promised := p.Links[:0:0]
	for _, link := range p.Links {
		if link.Promised {
			promised = append(promised, link)
		}
	}
	p.Links = promised

	seen := map[int]struct{}{}
	for _, link := range p.Links {
		for _, order := range link.Orders {
			seen[order] = struct{}{}
		}
	}
	for _, hand := range st.Hands {
		for _, order := range hand {
			if _, done := seen[order]; done {
				continue
			}
			thought := p.Thought(order)
			if !thought.Clued || thought.Reset || thought.Inferred.Len() < 2 {
				continue
			}
			group := []int{}
			for _, otherHand := range st.Hands {
				for _, other := range otherHand {
					otherThought := p.Thought(other)
					if otherThought.Clued && !otherThought.Reset &&
						otherThought.Inferred.Equal(thought.Inferred) {
						group = append(group, other)
					}
				}
			}
			if len(group) == thought.Inferred.Len() && len(group) >= 2 {
				p.Links = append(p.Links, Link{Orders: group, Identities: thought.Inferred})
				for _, o := range group {
					seen[o] = struct{}{}
				}
			}
		}
	}
}
