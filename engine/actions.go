package engine

// ClueType distinguishes colour clues from rank clues.
type ClueType uint8

const (
	ClueColour ClueType = iota
	ClueRank
)

// Clue is a signal marking a subset of a hand. For colour clues Value is a
// suit index; for rank clues it is the rank itself.
type Clue struct {
	Type  ClueType
	Value int
}

// ActionType enumerates the records of the inbound action stream plus the
// internal corrective actions used only by the rewind engine.
type ActionType uint8

const (
	ActionDraw ActionType = iota
	ActionClue
	ActionPlay
	ActionDiscard
	ActionTurn
	ActionGameOver

	// Internal corrective actions. These never originate from the
	// transport boundary; the rewind engine injects them into a replay.
	ActionIdentify
	ActionIgnore
	ActionFinesse
)

// Action is one record of the ordered action stream. It is a tagged union in
// the style of a wire message: Type selects which fields are meaningful.
//
//	draw      {PlayerIndex, Order, SuitIndex, Rank} (suit/rank -1 for our own)
//	clue      {Giver, Target, List, Clue}
//	play      {PlayerIndex, Order, SuitIndex, Rank}
//	discard   {PlayerIndex, Order, SuitIndex, Rank, Failed}
//	turn      {Num, CurrentPlayerIndex}
//	gameOver  {EndCondition, PlayerIndex}
//	identify  {Order, PlayerIndex, SuitIndex, Rank, Infer}
//	ignore    {ConnIndex, Order}
//	finesse   {List, Clue}
type Action struct {
	Type ActionType

	PlayerIndex int
	Order       int
	SuitIndex   int
	Rank        int

	Giver  int
	Target int
	List   []int
	Clue   Clue

	Failed bool

	Num                int
	CurrentPlayerIndex int
	EndCondition       int

	Infer     bool
	ConnIndex int
}

// Identity returns the (suit, rank) carried by a draw/play/discard/identify
// record and whether it is revealed (our own draws arrive with -1 sentinels).
func (a Action) Identity() (Identity, bool) {
	if a.SuitIndex < 0 || a.Rank < MinRank {
		return Identity{}, false
	}
	return Identity{SuitIndex: a.SuitIndex, Rank: a.Rank}, true
}

// ---------------------------------------------------------------------------
// Outbound commands
// ---------------------------------------------------------------------------

// CommandType enumerates the outgoing table commands.
type CommandType uint8

const (
	CmdPlay CommandType = iota
	CmdDiscard
	CmdColourClue
	CmdRankClue
	CmdEndGame
)

// Command is the outgoing action relayed by the transport layer.
// Target is a card order for plays/discards and a player index for clues.
type Command struct {
	TableID int
	Type    CommandType
	Target  int
	Value   int
}
