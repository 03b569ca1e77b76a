package hgroup

import (
	engine "github.com/Ape/hanabi-bot/engine"
	"github.com/Ape/hanabi-bot/engine/player"
)

// interpretClue runs the full clue pipeline: base possibility narrowing for
// every perspective, focus determination, interpretation search, waiting
// connections for chained readings, and good-touch cleanup.
func (g *Game) interpretClue(a engine.Action) {
	st := g.State
	numSuits := st.Variant.NumSuits()
	touch := st.Variant.TouchSet(a.Clue)

	// Stale newly-clued flags belong to the previous clue.
	for _, p := range g.allPerspectives() {
		for _, t := range p.Thoughts {
			t.NewlyClued = false
		}
	}
	preFinessed := map[int]struct{}{}
	for _, t := range g.Common.Thoughts {
		if t.Finessed {
			preFinessed[t.Order] = struct{}{}
		}
	}

	inList := map[int]struct{}{}
	for _, order := range a.List {
		inList[order] = struct{}{}
	}

	for _, p := range g.allPerspectives() {
		for _, order := range st.Hands[a.Target] {
			t := p.Thought(order)
			if _, touched := inList[order]; touched {
				if !t.Clued {
					t.NewlyClued = true
				}
				t.Clued = true
				t.Clues = append(t.Clues, player.CardClue{
					Type:  a.Clue.Type,
					Value: a.Clue.Value,
					Giver: a.Giver,
					Turn:  st.TurnCount,
				})
				t.Possible = t.Possible.Intersect(touch)
				t.Inferred = t.Inferred.Intersect(touch)
			} else {
				t.Possible = t.Possible.Subtract(touch)
				t.Inferred = t.Inferred.Subtract(touch)
			}
			if t.Inferred.IsEmpty() && !t.Reset {
				p.ResetCard(order)
			}
		}
	}

	focusOrder := g.FindFocus(a.Target, a.List)
	if focusOrder == -1 {
		g.ignoreOrders = map[int]int{}
		g.refresh()
		return
	}

	focusPossible := g.FindFocusPossible(a)

	focusCommon := g.Common.Thought(focusOrder)
	inferenceSet := engine.EmptyIdentitySet(numSuits)
	for _, fp := range focusPossible {
		if focusCommon.Possible.Has(fp.Identity) {
			inferenceSet = inferenceSet.With(fp.Identity)
		}
	}

	// The focus inference applies to common knowledge and to the target's
	// own blind view; other seats see the card directly.
	for _, p := range []*player.Player{g.Common, g.Players[a.Target]} {
		ft := p.Thought(focusOrder)
		narrowed := ft.Inferred.Intersect(inferenceSet)
		if narrowed.IsEmpty() {
			p.ResetCard(focusOrder)
		} else {
			ft.Inferred = narrowed
		}
	}

	// Chained readings become waiting connections; blind plays are
	// committed on the reacting player's view.
	actionIndex := len(g.ActionList) - 1
	usedFinesse := map[int]struct{}{}
	finesseIDs := map[int]engine.IdentitySet{}
	finesseReacting := map[int]int{}
	for _, fp := range focusPossible {
		if fp.Save || len(fp.Connections) == 0 || !inferenceSet.Has(fp.Identity) {
			continue
		}
		wc := &player.WaitingConnection{
			Connections: fp.Connections,
			Giver:       a.Giver,
			Target:      a.Target,
			FocusOrder:  focusOrder,
			Inference:   fp.Identity,
			ActionIndex: actionIndex,
		}
		g.Common.WaitingConnections = append(g.Common.WaitingConnections, wc)
		for _, conn := range fp.Connections {
			if conn.Type != player.ConnFinesse {
				continue
			}
			usedFinesse[conn.Order] = struct{}{}
			ids, ok := finesseIDs[conn.Order]
			if !ok {
				ids = engine.EmptyIdentitySet(numSuits)
			}
			finesseIDs[conn.Order] = ids.With(conn.Identity)
			finesseReacting[conn.Order] = conn.Reacting
		}
	}

	for order, ids := range finesseIDs {
		for _, p := range []*player.Player{g.Common, g.Players[finesseReacting[order]]} {
			t := p.Thought(order)
			t.Finessed = true
			narrowed := t.Inferred.Intersect(ids)
			if !narrowed.IsEmpty() {
				t.Inferred = narrowed
			}
		}
	}

	// Speculative finesse marks from rejected interpretations are undone.
	for _, t := range g.Common.Thoughts {
		if !t.Finessed {
			continue
		}
		if _, old := preFinessed[t.Order]; old {
			continue
		}
		if _, used := usedFinesse[t.Order]; !used {
			t.Finessed = false
		}
	}

	// Good touch: a non-focus card touched by this clue is not trash.
	trash := st.Variant.AllPossible().Filter(st.IsBasicTrash)
	for _, order := range a.List {
		if order == focusOrder {
			continue
		}
		for _, p := range []*player.Player{g.Common, g.Players[a.Target]} {
			t := p.Thought(order)
			if !t.NewlyClued {
				continue
			}
			narrowed := t.Inferred.Subtract(trash)
			if narrowed.IsEmpty() {
				p.ResetCard(order)
			} else {
				t.Inferred = narrowed
			}
		}
	}

	if a.Clue.Type == engine.ClueRank {
		g.addPromisedLink(a)
	}

	// A pending ignore override is consumed by exactly one interpretation.
	g.ignoreOrders = map[int]int{}

	g.refresh()
}

// addPromisedLink pools the clue's new cards when every one of them must be
// an immediately playable card of the clued rank: the group collectively
// promises one playable copy per member before the suits resolve.
func (g *Game) addPromisedLink(a engine.Action) {
	st := g.State
	pool := engine.EmptyIdentitySet(st.Variant.NumSuits())
	var orders []int
	for _, order := range a.List {
		t := g.Common.Thought(order)
		if !t.NewlyClued || t.Reset || t.Inferred.IsEmpty() || g.inPromisedLink(order) {
			continue
		}
		playable := true
		for _, id := range t.Inferred.Identities() {
			if !st.IsPlayable(id) {
				playable = false
				break
			}
		}
		if !playable {
			continue
		}
		orders = append(orders, order)
		pool = pool.Union(t.Inferred)
	}
	if len(orders) < 2 {
		return
	}
	for _, p := range []*player.Player{g.Common, g.Players[a.Target]} {
		p.Links = append(p.Links, player.Link{
			Orders:     append([]int(nil), orders...),
			Identities: pool,
			Promised:   true,
		})
	}
}

// inPromisedLink reports whether the order already belongs to a promised
// link in the common perspective.
func (g *Game) inPromisedLink(order int) bool {
	for _, link := range g.Common.Links {
		if link.Promised && link.Contains(order) {
			return true
		}
	}
	return false
}
