package player

import (
	"testing"

	engine "github.com/Ape/hanabi-bot/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFixture deals the given hands (oldest card first) and returns the state
// with one perspective per seat plus the common one. Draw actions carry the
// real identities; owner blindness comes from the perspective logic, not
// from the fixture.
func newFixture(t *testing.T, hands ...[]engine.Identity) (*engine.State, []*Player, *Player) {
	t.Helper()
	variant := engine.NoVariant()
	st := engine.NewState(len(hands), 0, variant)
	players := make([]*Player, len(hands))
	for i := range players {
		players[i] = New(i, variant)
	}
	common := NewCommon(variant)
	for seat, hand := range hands {
		for _, id := range hand {
			a := engine.Action{
				Type:        engine.ActionDraw,
				PlayerIndex: seat,
				Order:       len(st.Deck),
				SuitIndex:   id.SuitIndex,
				Rank:        id.Rank,
			}
			require.NoError(t, st.Apply(a))
			for _, p := range players {
				p.OnDraw(st, a)
			}
			common.OnDraw(st, a)
		}
	}
	return st, players, common
}

// assertBeliefInvariant checks inferred ⊆ possible for every thought, and
// that an empty possible set only occurs alongside the reset flag.
func assertBeliefInvariant(t *testing.T, perspectives ...*Player) {
	t.Helper()
	for _, p := range perspectives {
		for _, thought := range p.Thoughts {
			assert.True(t, thought.Inferred.Subtract(thought.Possible).IsEmpty(),
				"player %d card %d: inferred exceeds possible", p.PlayerIndex, thought.Order)
			if thought.Possible.IsEmpty() {
				assert.True(t, thought.Reset,
					"player %d card %d: empty possible without reset", p.PlayerIndex, thought.Order)
			}
		}
	}
}

func id(suit, rank int) engine.Identity {
	return engine.Identity{SuitIndex: suit, Rank: rank}
}

func TestOnDrawPerspectives(t *testing.T) {
	st, players, common := newFixture(t,
		[]engine.Identity{id(0, 1)},
		[]engine.Identity{id(1, 3)},
	)

	full := st.Variant.AllPossible()

	// The owner cannot see their own card.
	assert.True(t, players[0].Thought(0).Possible.Equal(full))
	assert.True(t, players[1].Thought(1).Possible.Equal(full))

	// Everyone else sees it exactly.
	assert.True(t, players[1].Thought(0).Possible.Equal(engine.SetOf(5, id(0, 1))))
	assert.True(t, players[0].Thought(1).Possible.Equal(engine.SetOf(5, id(1, 3))))

	// Common knowledge stays broad for every card.
	assert.True(t, common.Thought(0).Possible.Equal(full))
	assert.True(t, common.Thought(1).Possible.Equal(full))

	assertBeliefInvariant(t, players[0], players[1], common)
}

func TestIdentify(t *testing.T) {
	st, players, common := newFixture(t,
		[]engine.Identity{id(0, 1)},
		[]engine.Identity{id(1, 3)},
	)

	common.Identify(st, 0, id(0, 1), false)
	thought := common.Thought(0)
	got, ok := thought.ID()
	require.True(t, ok)
	assert.Equal(t, id(0, 1), got)
	assert.True(t, thought.Inferred.Equal(thought.Possible))

	// Inference-only identification narrows inferred but not possible.
	players[1].Identify(st, 1, id(1, 3), true)
	own := players[1].Thought(1)
	assert.True(t, own.Possible.Equal(st.Variant.AllPossible()))
	inferred, ok := own.InferredID()
	require.True(t, ok)
	assert.Equal(t, id(1, 3), inferred)

	assertBeliefInvariant(t, players[0], players[1], common)
}

func TestThinksPlayable(t *testing.T) {
	st, _, common := newFixture(t,
		[]engine.Identity{id(0, 1)},
		[]engine.Identity{id(1, 1), id(2, 4)},
	)

	// An untouched card is never announced playable.
	assert.Empty(t, common.ThinksPlayable(st, 1))

	// A clued card whose every inference plays qualifies.
	thought := common.Thought(1)
	thought.Clued = true
	thought.Inferred = engine.SetOf(5, id(1, 1))
	assert.Equal(t, []int{1}, common.ThinksPlayable(st, 1))

	// A reset card does not, even with playable inferences.
	thought.Reset = true
	assert.Empty(t, common.ThinksPlayable(st, 1))
}

func TestThinksTrash(t *testing.T) {
	st, _, common := newFixture(t,
		[]engine.Identity{id(0, 1)},
		[]engine.Identity{id(1, 1), id(2, 4)},
	)
	st.PlayStacks = []int{5, 5, 5, 5, 5}

	// With every stack finished, all possibilities are trash. Hands are
	// newest first, so the later draw leads.
	assert.Equal(t, []int{2, 1}, common.ThinksTrash(st, 1))

	st.PlayStacks = []int{0, 0, 0, 0, 0}
	assert.Empty(t, common.ThinksTrash(st, 1))

	// A saved card is judged on its inferences instead.
	thought := common.Thought(1)
	thought.Clued = true
	thought.Inferred = engine.SetOf(5, id(0, 3))
	st.PlayStacks[0] = 3
	assert.Equal(t, []int{1}, common.ThinksTrash(st, 1))
}

func TestCloneIsDeep(t *testing.T) {
	st, _, common := newFixture(t,
		[]engine.Identity{id(0, 1)},
		[]engine.Identity{id(1, 3)},
	)
	common.Thought(0).Clued = true
	common.Links = []Link{{Orders: []int{0, 1}, Identities: engine.SetOf(5, id(0, 1), id(1, 3))}}
	common.WaitingConnections = []*WaitingConnection{{
		Connections: []Connection{{Type: ConnFinesse, Reacting: 1, Order: 1, Identity: id(1, 3)}},
		FocusOrder:  0,
		Inference:   id(0, 1),
	}}

	clone := common.Clone()
	clone.Thought(0).Clued = false
	clone.Thought(0).Inferred = engine.EmptyIdentitySet(5)
	clone.Links[0].Orders[0] = 99
	clone.WaitingConnections[0].ConnIndex = 5
	clone.HypoStacks[0] = 9
	clone.UnknownPlays[42] = struct{}{}

	assert.True(t, common.Thought(0).Clued)
	assert.False(t, common.Thought(0).Inferred.IsEmpty())
	assert.Equal(t, 0, common.Links[0].Orders[0])
	assert.Equal(t, 0, common.WaitingConnections[0].ConnIndex)
	assert.Equal(t, 0, common.HypoStacks[0])
	assert.NotContains(t, common.UnknownPlays, 42)

	_ = st
}
