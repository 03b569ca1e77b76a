package hgroup

import engine "github.com/Ape/hanabi-bot/engine"

// TakeTurn picks our action for the current turn: urgent saves, then our own
// playables, then the best play clue, then discards, then a stall clue when
// discarding is illegal. Returns nil when we hold no cards and no clue is
// legal.
func (g *Game) TakeTurn() *engine.Command {
	st := g.State
	us := st.OurPlayerIndex

	if st.ClueTokens > 0 {
		if r := g.findUrgentSave(); r != nil {
			return g.clueCommand(r)
		}
	}

	if playable := g.Players[us].ThinksPlayable(st, us); len(playable) > 0 {
		return &engine.Command{TableID: g.TableID, Type: engine.CmdPlay, Target: playable[0]}
	}

	if st.ClueTokens > 0 {
		if best := g.bestPlayClue(); best != nil {
			return g.clueCommand(best)
		}
	}

	if st.ClueTokens < engine.MaxClueTokens {
		if trash := g.Players[us].ThinksTrash(st, us); len(trash) > 0 {
			return &engine.Command{TableID: g.TableID, Type: engine.CmdDiscard, Target: trash[0]}
		}
		if chop := g.ChopOrder(us); chop != -1 {
			return &engine.Command{TableID: g.TableID, Type: engine.CmdDiscard, Target: chop}
		}
	}

	// Locked hand or full token pool: burn a clue.
	if st.ClueTokens > 0 {
		if r := g.stallClue(); r != nil {
			return g.clueCommand(r)
		}
	}

	if hand := st.Hands[us]; len(hand) > 0 {
		return &engine.Command{TableID: g.TableID, Type: engine.CmdDiscard, Target: hand[0]}
	}
	return nil
}

// findUrgentSave checks whether the next player is about to lose an
// irreplaceable card off their chop and, if so, finds a clue whose focus
// lands on it.
func (g *Game) findUrgentSave() *ClueResult {
	st := g.State
	next := (st.OurPlayerIndex + 1) % st.NumPlayers
	if next == st.OurPlayerIndex {
		return nil
	}
	chop := g.ChopOrder(next)
	if chop == -1 {
		return nil
	}
	id, ok := st.Deck[chop].ID()
	if !ok {
		return nil
	}
	if !st.IsCritical(id) && !(id.Rank == 2 && g.uniqueTwo(id) && !st.IsBasicTrash(id)) {
		return nil
	}
	// A player with something to play will not discard this turn.
	if len(g.Common.ThinksPlayable(st, next)) > 0 {
		return nil
	}

	// Rank saves are the default; colour only works for criticals.
	candidates := []engine.Clue{{Type: engine.ClueRank, Value: id.Rank}}
	if st.IsCritical(id) {
		candidates = append(candidates, engine.Clue{Type: engine.ClueColour, Value: id.SuitIndex})
	}
	var best *ClueResult
	for _, clue := range candidates {
		hypo := g.EvaluateClue(next, clue)
		if hypo == nil {
			continue
		}
		result := g.GetResult(hypo, next, clue)
		if result.FocusOrder != chop {
			continue
		}
		if best == nil || ClueValue(result) > ClueValue(best) {
			best = result
		}
	}
	return best
}

// bestPlayClue searches every other hand for the highest-value clue worth
// giving at all.
func (g *Game) bestPlayClue() *ClueResult {
	var best *ClueResult
	for target := range g.State.Hands {
		if target == g.State.OurPlayerIndex {
			continue
		}
		result := g.DetermineClue(target)
		if result == nil || ClueValue(result) <= 0 {
			continue
		}
		if best == nil || ClueValue(result) > ClueValue(best) {
			best = result
		}
	}
	return best
}

// stallClue finds the least damaging legal clue for turns where discarding
// is not an option. A stall does not need a clean play reading, only to
// avoid bad touch, so candidates are simulated without the play-clue vetting.
func (g *Game) stallClue() *ClueResult {
	st := g.State
	var best *ClueResult
	bestNew := -1
	for target := range st.Hands {
		if target == st.OurPlayerIndex {
			continue
		}
		for _, clue := range g.DirectClues(target) {
			hypo := g.Simulate(engine.Action{
				Type:   engine.ActionClue,
				Giver:  st.OurPlayerIndex,
				Target: target,
				List:   st.TouchedOrders(target, clue),
				Clue:   clue,
			})
			result := g.GetResult(hypo, target, clue)
			if result.BadTouch > 0 {
				continue
			}
			if best == nil || result.NewTouched < bestNew {
				best = result
				bestNew = result.NewTouched
			}
		}
	}
	return best
}

func (g *Game) clueCommand(r *ClueResult) *engine.Command {
	cmdType := engine.CmdColourClue
	if r.Clue.Type == engine.ClueRank {
		cmdType = engine.CmdRankClue
	}
	return &engine.Command{
		TableID: g.TableID,
		Type:    cmdType,
		Target:  r.Target,
		Value:   r.Clue.Value,
	}
}
