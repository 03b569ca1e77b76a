// Package bot drives the reasoning core from an ordered inbound action
// stream: it validates boundary input, forwards records to the convention
// layer, and surfaces an outbound command whenever it becomes our turn.
package bot

import (
	"fmt"

	engine "github.com/Ape/hanabi-bot/engine"
	"github.com/Ape/hanabi-bot/hgroup"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Bot wraps one game session. It is not safe for concurrent use; the caller
// feeds actions strictly in stream order.
type Bot struct {
	SessionID uuid.UUID
	Game      *hgroup.Game

	log *logrus.Entry
}

// New creates a session for one table.
func New(tableID, numPlayers, ourPlayerIndex int, variant *engine.Variant) (*Bot, error) {
	if numPlayers < 2 {
		return nil, fmt.Errorf("need at least 2 players, got %d", numPlayers)
	}
	if ourPlayerIndex < 0 || ourPlayerIndex >= numPlayers {
		return nil, fmt.Errorf("our player index %d out of range", ourPlayerIndex)
	}
	if variant == nil || variant.NumSuits() == 0 {
		return nil, fmt.Errorf("missing variant")
	}
	id := uuid.New()
	return &Bot{
		SessionID: id,
		Game:      hgroup.NewGame(tableID, numPlayers, ourPlayerIndex, variant),
		log: logrus.WithFields(logrus.Fields{
			"session": id,
			"table":   tableID,
		}),
	}, nil
}

// HandleAction validates and applies one inbound record. When the record is
// a turn handoff to us, the chosen command is returned; otherwise the
// command is nil.
func (b *Bot) HandleAction(a engine.Action) (*engine.Command, error) {
	if err := b.validate(a); err != nil {
		return nil, err
	}
	if err := b.Game.HandleAction(a); err != nil {
		return nil, err
	}

	if a.Type == engine.ActionTurn && a.CurrentPlayerIndex == b.Game.State.OurPlayerIndex {
		cmd := b.Game.TakeTurn()
		if cmd == nil {
			b.log.Warn("no action available on our turn")
			return nil, nil
		}
		b.log.WithFields(logrus.Fields{
			"type":   cmd.Type,
			"target": cmd.Target,
			"value":  cmd.Value,
		}).Info("taking action")
		return cmd, nil
	}
	return nil, nil
}

// validate rejects records the transport boundary must never produce.
// Internal corrective actions are owned by the rewind engine.
func (b *Bot) validate(a engine.Action) error {
	st := b.Game.State
	switch a.Type {
	case engine.ActionIdentify, engine.ActionIgnore, engine.ActionFinesse:
		return fmt.Errorf("internal action type %d not accepted from the boundary", a.Type)
	case engine.ActionDraw:
		if a.Order < 0 {
			return fmt.Errorf("draw with negative order %d", a.Order)
		}
	case engine.ActionClue:
		if a.Giver < 0 || a.Giver >= st.NumPlayers {
			return fmt.Errorf("clue giver %d out of range", a.Giver)
		}
		if a.Target < 0 || a.Target >= st.NumPlayers {
			return fmt.Errorf("clue target %d out of range", a.Target)
		}
		if len(a.List) == 0 {
			return fmt.Errorf("clue touching no cards")
		}
		switch a.Clue.Type {
		case engine.ClueColour:
			if a.Clue.Value < 0 || a.Clue.Value >= st.Variant.NumSuits() {
				return fmt.Errorf("colour clue value %d out of range", a.Clue.Value)
			}
		case engine.ClueRank:
			if a.Clue.Value < engine.MinRank || a.Clue.Value > engine.MaxRank {
				return fmt.Errorf("rank clue value %d out of range", a.Clue.Value)
			}
		default:
			return fmt.Errorf("unknown clue type %d", a.Clue.Type)
		}
	case engine.ActionPlay, engine.ActionDiscard:
		if a.PlayerIndex < 0 || a.PlayerIndex >= st.NumPlayers {
			return fmt.Errorf("player index %d out of range", a.PlayerIndex)
		}
	}
	return nil
}
