package hgroup

import (
	"testing"

	engine "github.com/Ape/hanabi-bot/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewindDeterminism(t *testing.T) {
	build := func(t *testing.T) *Game {
		g := newTestGame(2)
		deal(t, g, 0, id(0, 1), id(0, 1), id(0, 1))
		deal(t, g, 1, id(0, 1), id(1, 2), id(2, 3))
		giveClue(t, g, 0, 1, engine.Clue{Type: engine.ClueRank, Value: 1})
		require.NoError(t, g.HandleAction(engine.Action{
			Type: engine.ActionPlay, PlayerIndex: 1, Order: 3, SuitIndex: 0, Rank: 1,
		}))
		require.NoError(t, g.HandleAction(engine.Action{
			Type: engine.ActionDiscard, PlayerIndex: 1, Order: 4, SuitIndex: 1, Rank: 2,
		}))
		return g
	}

	control := build(t)
	g := build(t)

	// An identify override matching ground truth must not change any
	// authoritative fact after replay.
	ok := g.Rewind(6, engine.Action{
		Type: engine.ActionIdentify, Order: 5, SuitIndex: 2, Rank: 3,
	})
	require.True(t, ok)

	assert.Equal(t, control.State.PlayStacks, g.State.PlayStacks)
	assert.Equal(t, control.State.DiscardStacks, g.State.DiscardStacks)
	assert.Equal(t, control.State.Strikes, g.State.Strikes)
	assert.Equal(t, control.State.ClueTokens, g.State.ClueTokens)
	assert.Equal(t, control.State.Hands, g.State.Hands)

	assert.Len(t, g.ActionList, len(control.ActionList)+1)
	assert.Equal(t, engine.ActionIdentify, g.ActionList[6].Type)
	assert.Equal(t, 0, g.RewindDepth)
}

func TestRewindOutOfRange(t *testing.T) {
	g := newTestGame(2)
	deal(t, g, 1, id(0, 1))

	assert.False(t, g.Rewind(-1, engine.Action{Type: engine.ActionIdentify}))
	assert.False(t, g.Rewind(5, engine.Action{Type: engine.ActionIdentify}))
}

func TestRewindDepthBound(t *testing.T) {
	g := newTestGame(2)
	deal(t, g, 1, id(0, 1))

	g.RewindDepth = MaxRewindDepth
	assert.Panics(t, func() {
		g.Rewind(0, engine.Action{Type: engine.ActionIdentify, Order: 0, SuitIndex: 0, Rank: 1})
	})
}

func TestMisplayRewindsWithIdentify(t *testing.T) {
	g := newTestGame(2)
	deal(t, g, 0, id(0, 1), id(0, 1), id(0, 1), id(0, 1))
	deal(t, g, 1, id(1, 4), id(2, 4), id(0, 2), id(3, 3)) // newest is blue 3

	giveClue(t, g, 0, 1, engine.Clue{Type: engine.ClueRank, Value: 3})

	// Bob misplays the blue 3. The belief pipeline replays the whole game
	// with the identity pinned from the draw; the replayed misplay must
	// not rewind a second time.
	require.NoError(t, g.HandleAction(engine.Action{
		Type: engine.ActionDiscard, PlayerIndex: 1, Order: 7,
		SuitIndex: 3, Rank: 3, Failed: true,
	}))

	assert.Equal(t, 1, g.State.Strikes)
	assert.Equal(t, 0, g.RewindDepth)

	found := 0
	for _, a := range g.ActionList {
		if a.Type == engine.ActionIdentify && a.Order == 7 {
			found++
		}
	}
	assert.Equal(t, 1, found, "exactly one identify override expected")
}

func TestSarcasticZeroCandidatesRewinds(t *testing.T) {
	g := finesseGame(t)
	giveClue(t, g, 0, 2, engine.Clue{Type: engine.ClueColour, Value: 0})
	require.Len(t, g.Common.WaitingConnections, 1)

	// Bob discards the finessed red 2 instead of playing it. No clued
	// card elsewhere can absorb the identity, so the finesse reading is
	// replayed out of existence.
	require.NoError(t, g.HandleAction(engine.Action{
		Type: engine.ActionDiscard, PlayerIndex: 1, Order: 7, SuitIndex: 0, Rank: 2,
	}))

	assert.Equal(t, 0, g.RewindDepth)
	assert.Empty(t, g.Common.WaitingConnections)
	assert.False(t, g.Common.Thought(7).Finessed)

	hasIgnore := false
	for _, a := range g.ActionList {
		if a.Type == engine.ActionIgnore && a.Order == 7 {
			hasIgnore = true
		}
	}
	assert.True(t, hasIgnore, "ignore override expected in the replayed log")

	// Without the finesse, the focus falls back to the unconnected
	// reading.
	got, ok := g.Common.Thought(10).InferredID()
	require.True(t, ok)
	assert.Equal(t, id(0, 2), got)
}

func TestSiblingReadingSkipsIgnoreRewind(t *testing.T) {
	g := newTestGame(3)
	deal(t, g, 0, id(0, 1), id(0, 1), id(0, 1), id(0, 1))
	deal(t, g, 1, id(1, 3), id(2, 3), id(0, 2), id(0, 1)) // red 1 then red 2 on finesse positions
	deal(t, g, 2, id(1, 4), id(0, 3), id(2, 4), id(3, 4))

	// Red to Cathy reads as red 2 (one finesse) or red 3 (two): two chains
	// from the same clue.
	giveClue(t, g, 0, 2, engine.Clue{Type: engine.ClueColour, Value: 0})
	require.Len(t, g.Common.WaitingConnections, 2)

	// Bob discards the second finessed card with nothing to absorb it. The
	// red 3 chain dies, but the red 2 chain from the same clue is still
	// alive, so the clue is not replayed.
	require.NoError(t, g.HandleAction(engine.Action{
		Type: engine.ActionDiscard, PlayerIndex: 1, Order: 6, SuitIndex: 0, Rank: 2,
	}))

	assert.Equal(t, 0, g.RewindDepth)
	for _, a := range g.ActionList {
		assert.NotEqual(t, engine.ActionIgnore, a.Type)
	}

	require.Len(t, g.Common.WaitingConnections, 1)
	wc := g.Common.WaitingConnections[0]
	assert.Equal(t, id(0, 2), wc.Inference)
	assert.Equal(t, 9, wc.FocusOrder)

	// The first finesse stands and the focus keeps a live reading.
	assert.True(t, g.Common.Thought(7).Finessed)
	focus := g.Common.Thought(9)
	assert.False(t, focus.Reset)
	assert.True(t, focus.Inferred.Has(id(0, 2)),
		"focus inferred = %v", focus.Inferred.Identities())
}

func TestDrawActionIndex(t *testing.T) {
	g := newTestGame(2)
	deal(t, g, 0, id(0, 1), id(0, 1))
	deal(t, g, 1, id(0, 3))

	assert.Equal(t, 0, g.drawActionIndex(0))
	assert.Equal(t, 2, g.drawActionIndex(2))
	assert.Equal(t, -1, g.drawActionIndex(9))
}
