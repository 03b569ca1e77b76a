package player

import engine "github.com/Ape/hanabi-bot/engine"

// ConnType classifies how a connecting card is expected to become playable.
type ConnType uint8

const (
	// ConnKnown: the card is already commonly known to be the identity.
	ConnKnown ConnType = iota
	// ConnPrompt: a clued card inferable as the identity by elimination.
	ConnPrompt
	// ConnFinesse: an unclued card silently asserted playable by convention.
	ConnFinesse
)

func (t ConnType) String() string {
	switch t {
	case ConnKnown:
		return "known"
	case ConnPrompt:
		return "prompt"
	case ConnFinesse:
		return "finesse"
	}
	return "unknown"
}

// Connection is one link of a chain: the card at Order, held by Reacting,
// must turn out to be Identity and play before the focus does. Hidden
// connections are bookkeeping links (layered cards) that do not count when
// the rewind engine records how many real connections preceded a failure.
type Connection struct {
	Type     ConnType
	Reacting int
	Order    int
	Identity engine.Identity
	Hidden   bool
}

// WaitingConnection is a pending, falsifiable hypothesis: the focused card
// is Inference because the chain of Connections will play out in order.
// ActionIndex addresses the clue in the global action log so a rewind can
// return to the point where the assumption was formed.
type WaitingConnection struct {
	Connections []Connection
	ConnIndex   int // next unresolved connection
	Giver       int
	Target      int
	FocusOrder  int
	Inference   engine.Identity
	ActionIndex int
}

// Clone returns a deep copy of the waiting connection.
func (wc *WaitingConnection) Clone() *WaitingConnection {
	out := *wc
	out.Connections = append([]Connection(nil), wc.Connections...)
	return &out
}

// RemainingDependsOn reports whether the unresolved part of the chain still
// references the card at order.
func (wc *WaitingConnection) RemainingDependsOn(order int) bool {
	for _, conn := range wc.Connections[wc.ConnIndex:] {
		if conn.Order == order {
			return true
		}
	}
	return false
}

// RealConnectionsBefore counts the non-hidden connections resolved before
// the connection referencing order. Used to build an ignore override.
func (wc *WaitingConnection) RealConnectionsBefore(order int) int {
	count := 0
	for _, conn := range wc.Connections {
		if conn.Order == order {
			break
		}
		if !conn.Hidden {
			count++
		}
	}
	return count
}

// Link groups cards whose identities are collectively but not individually
// resolved: the group holds exactly one copy of each identity in Identities.
// Promised links are guaranteed by convention to resolve to consecutive
// playable ranks.
type Link struct {
	Orders     []int
	Identities engine.IdentitySet
	Promised   bool
}

// Contains reports whether the order is a member of the link.
func (l Link) Contains(order int) bool {
	for _, o := range l.Orders {
		if o == order {
			return true
		}
	}
	return false
}
