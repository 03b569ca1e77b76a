// Package hgroup implements H-Group-style convention reasoning on top of the
// authoritative engine state and the per-perspective beliefs: clue focus and
// interpretation, connection search, clue determination, discard reading and
// the rewind engine.
package hgroup

import (
	"fmt"

	engine "github.com/Ape/hanabi-bot/engine"
	"github.com/Ape/hanabi-bot/engine/player"
	"github.com/sirupsen/logrus"
)

var logger = logrus.StandardLogger()

const (
	// MaxCopyDepth bounds nested hypothetical cloning. Clue evaluation
	// simulates a clue, which simulates the receiver's interpretation;
	// anything deeper indicates a defect in the interpretation pipeline.
	MaxCopyDepth = 3

	// MaxRewindDepth bounds nested rewinds. Needing more than this many
	// corrections at once is a convention-engine bug, not a position that
	// deeper correction can fix.
	MaxRewindDepth = 3
)

// ErrCloneDepth and ErrRewindDepth name the two fatal conditions; they are
// raised through logger.Panic so a driver can distinguish them in recover.
var (
	ErrCloneDepth  = fmt.Errorf("hypothetical clone depth exceeded")
	ErrRewindDepth = fmt.Errorf("rewind recursion depth exceeded")
)

// Game aggregates everything the reasoning core owns: the authoritative
// state, one belief perspective per seat, the common-knowledge perspective,
// and the immutable action log that rewinds replay.
type Game struct {
	TableID int

	State   *engine.State
	Players []*player.Player
	Common  *player.Player

	// ActionList is the single source of truth; actions are applied
	// strictly in log order and rewinds reprocess a prefix of it.
	ActionList []engine.Action

	// CopyDepth counts nested hypothetical clones; the authoritative
	// game sits at depth zero.
	CopyDepth int

	// RewindDepth counts rewinds currently in flight.
	RewindDepth int

	// ignoreOrders maps card orders a pending ignore override excludes
	// from connection search to the chain position the exclusion starts
	// at; consumed by the next clue interpretation.
	ignoreOrders map[int]int
}

// NewGame initializes a game for the given table.
func NewGame(tableID, numPlayers, ourPlayerIndex int, variant *engine.Variant) *Game {
	g := &Game{
		TableID:      tableID,
		State:        engine.NewState(numPlayers, ourPlayerIndex, variant),
		Players:      make([]*player.Player, numPlayers),
		Common:       player.NewCommon(variant),
		ignoreOrders: map[int]int{},
	}
	for i := 0; i < numPlayers; i++ {
		g.Players[i] = player.New(i, variant)
	}
	return g
}

// Clone returns a value-independent deep copy for hypothetical exploration.
// Mutations on the clone never affect the original. Exceeding the depth
// bound is fatal: it signals a non-terminating interpretation chain.
func (g *Game) Clone() *Game {
	if g.CopyDepth+1 > MaxCopyDepth {
		logger.Panic(ErrCloneDepth)
	}
	out := &Game{
		TableID:      g.TableID,
		State:        g.State.Clone(),
		Players:      make([]*player.Player, len(g.Players)),
		Common:       g.Common.Clone(),
		ActionList:   append([]engine.Action(nil), g.ActionList...),
		CopyDepth:    g.CopyDepth + 1,
		RewindDepth:  g.RewindDepth,
		ignoreOrders: map[int]int{},
	}
	for i, p := range g.Players {
		out.Players[i] = p.Clone()
	}
	for o, ci := range g.ignoreOrders {
		out.ignoreOrders[o] = ci
	}
	return out
}

// Simulate clones the game and applies one action to the copy.
func (g *Game) Simulate(a engine.Action) *Game {
	hypo := g.Clone()
	if err := hypo.HandleAction(a); err != nil {
		logger.Warnf("simulation failed: %v", err)
	}
	return hypo
}

// allPerspectives returns every seat perspective plus the common one.
func (g *Game) allPerspectives() []*player.Player {
	out := make([]*player.Player, 0, len(g.Players)+1)
	out = append(out, g.Players...)
	return append(out, g.Common)
}

// HandleAction appends one record to the action log, applies it to the
// authoritative state, and routes it through the convention interpreters.
func (g *Game) HandleAction(a engine.Action) error {
	g.ActionList = append(g.ActionList, a)
	if err := g.State.Apply(a); err != nil {
		return err
	}

	switch a.Type {
	case engine.ActionDraw:
		for _, p := range g.allPerspectives() {
			p.OnDraw(g.State, a)
		}
		g.refresh()

	case engine.ActionClue:
		g.interpretClue(a)

	case engine.ActionPlay:
		g.interpretPlay(a)

	case engine.ActionDiscard:
		g.interpretDiscard(a)

	case engine.ActionTurn, engine.ActionGameOver:
		// Authoritative bookkeeping only.

	case engine.ActionIdentify:
		g.applyIdentify(a)

	case engine.ActionIgnore:
		g.ignoreOrders[a.Order] = a.ConnIndex

	case engine.ActionFinesse:
		g.applyFinesse(a)

	default:
		return fmt.Errorf("unhandled action type %d", a.Type)
	}
	return nil
}

// refresh runs every perspective through the elimination pipeline and
// recomputes links and hypothetical stacks.
func (g *Game) refresh() {
	for _, p := range g.allPerspectives() {
		p.CardElim(g.State)
		p.FindLinks(g.State)
		p.GoodTouchElim(g.State)
		p.UpdateHypoStacks(g.State)
	}
}

// applyIdentify pins a card's identity across all perspectives. With Infer
// set, the fact is recorded as an inference only.
func (g *Game) applyIdentify(a engine.Action) {
	if a.Order < 0 || a.Order >= len(g.State.Deck) {
		logger.Warnf("identify for unknown card order %d", a.Order)
		return
	}
	if !a.Infer {
		card := &g.State.Deck[a.Order]
		card.SuitIndex = a.SuitIndex
		card.Rank = a.Rank
	}
	id := engine.Identity{SuitIndex: a.SuitIndex, Rank: a.Rank}
	for _, p := range g.allPerspectives() {
		p.Identify(g.State, a.Order, id, a.Infer)
	}
	g.refresh()
}

// applyFinesse retroactively marks the listed cards as finessed.
func (g *Game) applyFinesse(a engine.Action) {
	for _, order := range a.List {
		if order < 0 || order >= len(g.State.Deck) {
			continue
		}
		for _, p := range g.allPerspectives() {
			p.Thought(order).Finessed = true
		}
	}
	g.refresh()
}
