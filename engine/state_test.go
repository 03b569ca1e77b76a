package engine

import "testing"

// drawCards deals count cards to the player with the given identities,
// continuing the global order sequence.
func drawCards(t *testing.T, st *State, playerIndex int, ids ...Identity) {
	t.Helper()
	for _, id := range ids {
		err := st.Apply(Action{
			Type:        ActionDraw,
			PlayerIndex: playerIndex,
			Order:       len(st.Deck),
			SuitIndex:   id.SuitIndex,
			Rank:        id.Rank,
		})
		if err != nil {
			t.Fatalf("draw: %v", err)
		}
	}
}

// TestIsCritical verifies criticality against the copy distribution: with
// two of the three rank-1 copies discarded, the survivor is critical.
func TestIsCritical(t *testing.T) {
	st := NewState(3, 0, NoVariant())
	st.DiscardStacks[0][0] = 2

	tests := []struct {
		id   Identity
		want bool
	}{
		{Identity{SuitIndex: 0, Rank: 1}, true},  // 2 discarded == copies(3) - 1
		{Identity{SuitIndex: 1, Rank: 1}, false}, // all three copies live
		{Identity{SuitIndex: 0, Rank: 5}, true},  // fives are always critical
		{Identity{SuitIndex: 0, Rank: 2}, false},
	}
	for _, tt := range tests {
		if got := st.IsCritical(tt.id); got != tt.want {
			t.Errorf("IsCritical(%v) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

// TestBasicTrashAndPlayableAway verifies the stack-distance queries.
func TestBasicTrashAndPlayableAway(t *testing.T) {
	st := NewState(3, 0, NewVariant("Three Suits", "Red", "Yellow", "Green"))
	st.PlayStacks = []int{3, 0, 0}

	id := Identity{SuitIndex: 0, Rank: 2}
	if !st.IsBasicTrash(id) {
		t.Errorf("IsBasicTrash(%v) = false, want true (already played)", id)
	}
	if got := st.PlayableAway(id); got != -1 {
		t.Errorf("PlayableAway(%v) = %d, want -1", id, got)
	}

	next := Identity{SuitIndex: 0, Rank: 4}
	if got := st.PlayableAway(next); got != 1 {
		t.Errorf("PlayableAway(%v) = %d, want 1", next, got)
	}
	if !st.IsPlayable(next) {
		t.Errorf("IsPlayable(%v) = false, want true", next)
	}

	dead := Identity{SuitIndex: 1, Rank: 4}
	st.MaxRanks[1] = 3
	if !st.IsBasicTrash(dead) {
		t.Errorf("IsBasicTrash(%v) = false, want true (above max rank)", dead)
	}
}

// TestPace verifies the slack formula score + cardsLeft + numPlayers - maxScore.
func TestPace(t *testing.T) {
	st := NewState(3, 0, NoVariant())
	st.PlayStacks = []int{5, 5, 0, 0, 0} // score 10
	st.CardsLeft = 20
	if got := st.Pace(); got != 8 {
		t.Errorf("Pace() = %d, want 8", got)
	}
}

// TestApplyDraw verifies hand ordering, sequencing and the endgame trigger.
func TestApplyDraw(t *testing.T) {
	st := NewState(2, 0, NoVariant())
	drawCards(t, st, 0, Identity{0, 1}, Identity{1, 2})

	if len(st.Hands[0]) != 2 || st.Hands[0][0] != 1 || st.Hands[0][1] != 0 {
		t.Errorf("hand = %v, want [1 0] (newest first)", st.Hands[0])
	}
	if st.CardsLeft != 48 {
		t.Errorf("CardsLeft = %d, want 48", st.CardsLeft)
	}

	// Out-of-sequence orders are rejected.
	err := st.Apply(Action{Type: ActionDraw, PlayerIndex: 0, Order: 7, SuitIndex: 0, Rank: 1})
	if err == nil {
		t.Error("out-of-sequence draw accepted")
	}

	st.CardsLeft = 1
	drawCards(t, st, 1, Identity{2, 3})
	if st.EndgameTurns != st.NumPlayers+1 {
		t.Errorf("EndgameTurns = %d, want %d after final draw", st.EndgameTurns, st.NumPlayers+1)
	}
}

// TestApplyPlay verifies stack advance and the five-bonus token.
func TestApplyPlay(t *testing.T) {
	st := NewState(2, 0, NoVariant())
	drawCards(t, st, 0, Identity{0, 5})
	st.PlayStacks[0] = 4
	st.ClueTokens = 3

	err := st.Apply(Action{Type: ActionPlay, PlayerIndex: 0, Order: 0, SuitIndex: 0, Rank: 5})
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if st.PlayStacks[0] != 5 {
		t.Errorf("PlayStacks[0] = %d, want 5", st.PlayStacks[0])
	}
	if st.ClueTokens != 4 {
		t.Errorf("ClueTokens = %d, want 4 (five bonus)", st.ClueTokens)
	}
	if len(st.Hands[0]) != 0 {
		t.Errorf("hand = %v, want empty", st.Hands[0])
	}
}

// TestApplyDiscard verifies token gain, strikes and the death of a rank when
// its last copy is lost.
func TestApplyDiscard(t *testing.T) {
	st := NewState(2, 0, NoVariant())
	drawCards(t, st, 0, Identity{0, 4}, Identity{0, 4})
	st.ClueTokens = 0

	err := st.Apply(Action{Type: ActionDiscard, PlayerIndex: 0, Order: 0, SuitIndex: 0, Rank: 4})
	if err != nil {
		t.Fatalf("discard: %v", err)
	}
	if st.ClueTokens != 1 {
		t.Errorf("ClueTokens = %d, want 1", st.ClueTokens)
	}
	if st.MaxRanks[0] != 5 {
		t.Errorf("MaxRanks[0] = %d, want 5 (one copy left)", st.MaxRanks[0])
	}

	// Misplays burn a strike instead of earning a token.
	err = st.Apply(Action{Type: ActionDiscard, PlayerIndex: 0, Order: 1, SuitIndex: 0, Rank: 4, Failed: true})
	if err != nil {
		t.Fatalf("failed discard: %v", err)
	}
	if st.Strikes != 1 {
		t.Errorf("Strikes = %d, want 1", st.Strikes)
	}
	if st.MaxRanks[0] != 3 {
		t.Errorf("MaxRanks[0] = %d, want 3 (both fours gone)", st.MaxRanks[0])
	}
	if got := st.MaxScore(); got != 23 {
		t.Errorf("MaxScore() = %d, want 23", got)
	}
}

// TestApplyClue verifies token spend and exhaustion.
func TestApplyClue(t *testing.T) {
	st := NewState(2, 0, NoVariant())
	st.ClueTokens = 1

	err := st.Apply(Action{Type: ActionClue, Giver: 0, Target: 1, Clue: Clue{Type: ClueRank, Value: 1}})
	if err != nil {
		t.Fatalf("clue: %v", err)
	}
	if st.ClueTokens != 0 {
		t.Errorf("ClueTokens = %d, want 0", st.ClueTokens)
	}
	err = st.Apply(Action{Type: ActionClue, Giver: 0, Target: 1, Clue: Clue{Type: ClueRank, Value: 1}})
	if err == nil {
		t.Error("clue accepted with no tokens")
	}
}

// TestCloneIndependence verifies mutations on a clone never reach the original.
func TestCloneIndependence(t *testing.T) {
	st := NewState(2, 0, NoVariant())
	drawCards(t, st, 0, Identity{0, 1})

	clone := st.Clone()
	clone.PlayStacks[0] = 5
	clone.Hands[0] = append(clone.Hands[0], 99)
	clone.Deck[0].Rank = 4
	clone.DiscardStacks[0][0] = 2

	if st.PlayStacks[0] != 0 || len(st.Hands[0]) != 1 || st.Deck[0].Rank != 1 || st.DiscardStacks[0][0] != 0 {
		t.Error("clone mutation leaked into the original")
	}
}

// TestBaseCount verifies played and discarded copies are both counted.
func TestBaseCount(t *testing.T) {
	st := NewState(2, 0, NoVariant())
	st.PlayStacks[0] = 2
	st.DiscardStacks[0][0] = 1

	if got := st.BaseCount(Identity{SuitIndex: 0, Rank: 1}); got != 2 {
		t.Errorf("BaseCount(r1) = %d, want 2 (played + discarded)", got)
	}
	if got := st.BaseCount(Identity{SuitIndex: 0, Rank: 3}); got != 0 {
		t.Errorf("BaseCount(r3) = %d, want 0", got)
	}
}
