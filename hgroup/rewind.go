package hgroup

import engine "github.com/Ape/hanabi-bot/engine"

// alreadyIdentified reports whether the log already carries an identify
// override for the card. A replayed violation must not rewind again.
func (g *Game) alreadyIdentified(order int) bool {
	for _, a := range g.ActionList {
		if a.Type == engine.ActionIdentify && a.Order == order {
			return true
		}
	}
	return false
}

// drawActionIndex returns the index in the action log of the draw that
// produced the card at order, or -1.
func (g *Game) drawActionIndex(order int) int {
	for i, a := range g.ActionList {
		if a.Type == engine.ActionDraw && a.Order == order {
			return i
		}
	}
	return -1
}

// Rewind rebuilds the entire game by replaying the action log from scratch
// with override spliced in immediately before ActionList[actionIndex]. The
// receiver is replaced wholesale on success. Replay may trigger nested
// rewinds; exceeding the depth bound is fatal.
func (g *Game) Rewind(actionIndex int, override engine.Action) bool {
	if actionIndex < 0 || actionIndex >= len(g.ActionList) {
		logger.Warnf("table %d: rewind index %d out of range (%d actions)",
			g.TableID, actionIndex, len(g.ActionList))
		return false
	}
	depth := g.RewindDepth + 1
	if depth > MaxRewindDepth {
		logger.Panic(ErrRewindDepth)
	}
	logger.WithFields(map[string]interface{}{
		"table":    g.TableID,
		"action":   actionIndex,
		"override": override.Type,
	}).Info("rewinding")

	actions := make([]engine.Action, 0, len(g.ActionList)+1)
	actions = append(actions, g.ActionList[:actionIndex]...)
	actions = append(actions, override)
	actions = append(actions, g.ActionList[actionIndex:]...)

	fresh := NewGame(g.TableID, g.State.NumPlayers, g.State.OurPlayerIndex, g.State.Variant)
	fresh.RewindDepth = depth
	fresh.CopyDepth = g.CopyDepth
	for _, a := range actions {
		if err := fresh.HandleAction(a); err != nil {
			logger.Warnf("table %d: rewind replay rejected action: %v", g.TableID, err)
		}
	}
	fresh.RewindDepth = g.RewindDepth

	*g = *fresh
	return true
}
