package engine

// Suit describes one suit of a variant.
//
// AllClueColours marks rainbow-like suits that every colour clue touches;
// NoClueColours marks white-like suits that no colour clue touches. OneOfEach
// marks dark suits that have a single copy of every rank.
type Suit struct {
	Name           string
	AllClueColours bool
	NoClueColours  bool
	OneOfEach      bool
}

// Variant holds the validated rule table the core reasons over: the suit
// list, the clue-touch predicate and per-identity copy counts. Construction
// and validation of variants belongs to the external rules provider; the
// core assumes a well-formed object.
type Variant struct {
	Name  string
	Suits []Suit
}

// NewVariant builds a variant from plain suit names with the default
// 3/2/2/2/1 copy distribution and no special colour behaviour.
func NewVariant(name string, suitNames ...string) *Variant {
	suits := make([]Suit, len(suitNames))
	for i, n := range suitNames {
		suits[i] = Suit{Name: n}
	}
	return &Variant{Name: name, Suits: suits}
}

// NoVariant returns the standard five-suit variant.
func NoVariant() *Variant {
	return NewVariant("No Variant", "Red", "Yellow", "Green", "Blue", "Purple")
}

// NumSuits returns the number of suits in the variant.
func (v *Variant) NumSuits() int { return len(v.Suits) }

// TotalCopies returns how many copies of the identity exist in the deck.
// Default distribution is 3/2/2/2/1 per rank; dark suits have one of each.
func (v *Variant) TotalCopies(id Identity) int {
	if v.Suits[id.SuitIndex].OneOfEach {
		return 1
	}
	switch id.Rank {
	case 1:
		return 3
	case 5:
		return 1
	default:
		return 2
	}
}

// DeckSize returns the total number of cards in the variant's deck.
func (v *Variant) DeckSize() int {
	total := 0
	for s := range v.Suits {
		for r := MinRank; r <= MaxRank; r++ {
			total += v.TotalCopies(Identity{SuitIndex: s, Rank: r})
		}
	}
	return total
}

// ClueColours returns the suit indices that can be named by a colour clue.
// Rainbow-like and white-like suits have no colour of their own.
func (v *Variant) ClueColours() []int {
	out := make([]int, 0, len(v.Suits))
	for i, s := range v.Suits {
		if !s.AllClueColours && !s.NoClueColours {
			out = append(out, i)
		}
	}
	return out
}

// ClueRanks returns the ranks that can be named by a rank clue.
func (v *Variant) ClueRanks() []int {
	return []int{1, 2, 3, 4, 5}
}

// Touches reports whether a clue marks a card of the given identity.
func (v *Variant) Touches(id Identity, clue Clue) bool {
	switch clue.Type {
	case ClueColour:
		suit := v.Suits[id.SuitIndex]
		if suit.AllClueColours {
			return true
		}
		if suit.NoClueColours {
			return false
		}
		return id.SuitIndex == clue.Value
	case ClueRank:
		return id.Rank == clue.Value
	}
	return false
}

// TouchSet returns every identity the clue touches.
func (v *Variant) TouchSet(clue Clue) IdentitySet {
	return AllIdentities(v.NumSuits()).Filter(func(id Identity) bool {
		return v.Touches(id, clue)
	})
}

// AllPossible returns the full identity set of the variant.
func (v *Variant) AllPossible() IdentitySet {
	return AllIdentities(v.NumSuits())
}
