package hgroup

import engine "github.com/Ape/hanabi-bot/engine"

// ClueResult summarizes the simulated effect of one candidate clue.
type ClueResult struct {
	Clue       engine.Clue
	Target     int
	FocusOrder int

	Elim       int     // inference narrowing across the target's hand
	NewTouched int     // useful cards newly marked
	BadTouch   int     // newly marked cards that are trash or duplicates
	Trash      int     // the subset of BadTouch that is outright trash
	Playables  int     // hypothetical score gained
	Remainder  float64 // value of the card pushed onto chop, when it matters
}

// ClueValue ranks clue results. A package variable so a driver can swap the
// weighting without forking the search.
var ClueValue = func(r *ClueResult) float64 {
	return float64(r.Playables) +
		0.5*float64(r.NewTouched) +
		0.1*float64(r.Elim) -
		float64(r.BadTouch) -
		0.25*float64(r.Trash) -
		0.2*r.Remainder
}

// DirectClues enumerates every legal clue to the target that touches at
// least one card, colours before ranks.
func (g *Game) DirectClues(target int) []engine.Clue {
	st := g.State
	var out []engine.Clue
	for _, colour := range st.Variant.ClueColours() {
		clue := engine.Clue{Type: engine.ClueColour, Value: colour}
		if len(st.TouchedOrders(target, clue)) > 0 {
			out = append(out, clue)
		}
	}
	for _, rank := range st.Variant.ClueRanks() {
		clue := engine.Clue{Type: engine.ClueRank, Value: rank}
		if len(st.TouchedOrders(target, clue)) > 0 {
			out = append(out, clue)
		}
	}
	return out
}

// EvaluateClue simulates giving the clue and vets the receiver's reading.
// Returns the hypothetical game, or nil when the clue is illegal or would
// be misread: the focus must survive interpretation with its real identity
// among the inferences, and no committed card anywhere in the hand may be
// orphaned, whether the clue touches it or passes it by.
func (g *Game) EvaluateClue(target int, clue engine.Clue) *Game {
	st := g.State
	if st.ClueTokens <= 0 || target == st.OurPlayerIndex {
		return nil
	}
	list := st.TouchedOrders(target, clue)
	if len(list) == 0 {
		return nil
	}

	hypo := g.Simulate(engine.Action{
		Type:   engine.ActionClue,
		Giver:  st.OurPlayerIndex,
		Target: target,
		List:   list,
		Clue:   clue,
	})

	focus := hypo.FindFocus(target, list)
	if focus == -1 {
		return nil
	}
	ft := hypo.Common.Thought(focus)
	if ft.Reset {
		return nil
	}
	if actual, ok := hypo.State.Deck[focus].ID(); ok && !ft.Inferred.Has(actual) {
		return nil
	}

	for _, order := range st.Hands[target] {
		if order == focus {
			continue
		}
		t := hypo.Common.Thought(order)
		if t.NewlyClued {
			continue
		}
		pre := g.Common.Thought(order)
		if !pre.Saved() || pre.Reset {
			continue
		}
		actual, ok := hypo.State.Deck[order].ID()
		if !ok || hypo.State.IsBasicTrash(actual) {
			continue
		}
		if t.Reset || (pre.Inferred.Has(actual) && !t.Inferred.Has(actual)) {
			return nil
		}
	}
	return hypo
}

// GetResult scores a vetted hypothetical against the current game.
func (g *Game) GetResult(hypo *Game, target int, clue engine.Clue) *ClueResult {
	st := g.State
	list := st.TouchedOrders(target, clue)
	r := &ClueResult{
		Clue:       clue,
		Target:     target,
		FocusOrder: hypo.FindFocus(target, list),
	}

	for _, order := range st.Hands[target] {
		pre := g.Common.Thought(order).Inferred.Len()
		post := hypo.Common.Thought(order).Inferred.Len()
		if pre > post {
			r.Elim += pre - post
		}
	}

	seen := map[engine.Identity]bool{}
	for _, order := range list {
		t := hypo.Common.Thought(order)
		if !t.NewlyClued {
			continue
		}
		actual, ok := hypo.State.Deck[order].ID()
		if !ok {
			r.NewTouched++
			continue
		}
		switch {
		case hypo.State.IsBasicTrash(actual):
			r.BadTouch++
			r.Trash++
		case g.savedElsewhere(actual, order) || seen[actual]:
			// Duplicates of saved cards, including a second copy inside
			// this same clue, are touched for nothing.
			r.BadTouch++
		default:
			r.NewTouched++
		}
		seen[actual] = true
	}

	r.Playables = hypo.Common.HypoScore() - g.Common.HypoScore()

	// With the token pool nearly drained the target's next discard is
	// forced; charge the clue for the card it pushes onto chop. An empty
	// deck does not lift the charge.
	if hypo.State.ClueTokens < 2 {
		if chop := hypo.ChopOrder(target); chop != -1 {
			if actual, ok := hypo.State.Deck[chop].ID(); ok {
				r.Remainder = g.CardValue(actual)
			}
		}
	}
	return r
}

// DetermineClue returns the best-scoring clue to the target, or nil when no
// clue survives evaluation.
func (g *Game) DetermineClue(target int) *ClueResult {
	var best *ClueResult
	for _, clue := range g.DirectClues(target) {
		hypo := g.EvaluateClue(target, clue)
		if hypo == nil {
			continue
		}
		result := g.GetResult(hypo, target, clue)
		if best == nil || ClueValue(result) > ClueValue(best) {
			best = result
		}
	}
	return best
}

// savedElsewhere reports whether another saved card visibly duplicates the
// identity. except excludes one order from the scan (-1 for none).
func (g *Game) savedElsewhere(id engine.Identity, except int) bool {
	st := g.State
	for _, hand := range st.Hands {
		for _, order := range hand {
			if order == except {
				continue
			}
			t := g.Common.Thought(order)
			if !t.Saved() || t.Reset {
				continue
			}
			if actual, ok := st.Deck[order].ID(); ok && actual == id {
				return true
			}
		}
	}
	return false
}

// CardValue estimates how costly losing the identity would be: zero for
// trash or duplicated cards, maximal for criticals, and otherwise decaying
// with distance from the hypothetical stacks.
func (g *Game) CardValue(id engine.Identity) float64 {
	st := g.State
	if st.IsBasicTrash(id) || g.savedElsewhere(id, -1) {
		return 0
	}
	if st.IsCritical(id) {
		return 5
	}
	if id.Rank == 2 && g.uniqueTwo(id) {
		return 4
	}
	v := 5 - (id.Rank - g.Common.HypoStacks[id.SuitIndex])
	if v < 0 {
		v = 0
	}
	return float64(v)
}
