package engine

// Rank bounds. Ranks are 1-based; rank 0 never appears in a legal identity.
const (
	MinRank = 1
	MaxRank = 5
)

// MaxSuits is the largest suit count any supported variant can have.
// IdentitySet packs one bit per (suit, rank) pair, so MaxSuits*MaxRank
// must stay within 32 bits.
const MaxSuits = 6

// Identity is a concrete (suit, rank) pair. The zero value is not a legal
// identity; hidden cards use suit/rank -1 on ActualCard instead.
type Identity struct {
	SuitIndex int
	Rank      int
}

// bitIndex returns the IdentitySet bit position for this identity.
func (id Identity) bitIndex() uint {
	return uint(id.SuitIndex)*MaxRank + uint(id.Rank-1)
}

// ---------------------------------------------------------------------------
// IdentitySet — immutable bitset of candidate identities
// ---------------------------------------------------------------------------

// IdentitySet is an immutable set of identities scoped to a fixed suit count.
// Bit suit*MaxRank + (rank-1) is set when (suit, rank) is a member. All
// mutators return a new set, so values may be freely shared across cards,
// perspectives and clones.
type IdentitySet struct {
	bits     uint32
	numSuits uint8
}

// AllIdentities returns the set containing every identity of the variant.
func AllIdentities(numSuits int) IdentitySet {
	var bits uint32
	for s := 0; s < numSuits; s++ {
		for r := MinRank; r <= MaxRank; r++ {
			bits |= 1 << (uint(s)*MaxRank + uint(r-1))
		}
	}
	return IdentitySet{bits: bits, numSuits: uint8(numSuits)}
}

// EmptyIdentitySet returns the empty set for a variant with numSuits suits.
func EmptyIdentitySet(numSuits int) IdentitySet {
	return IdentitySet{numSuits: uint8(numSuits)}
}

// SetOf returns the set containing exactly the given identities.
func SetOf(numSuits int, ids ...Identity) IdentitySet {
	set := EmptyIdentitySet(numSuits)
	for _, id := range ids {
		set = set.With(id)
	}
	return set
}

// Has reports whether id is a member.
func (s IdentitySet) Has(id Identity) bool {
	if id.SuitIndex < 0 || id.SuitIndex >= int(s.numSuits) || id.Rank < MinRank || id.Rank > MaxRank {
		return false
	}
	return s.bits>>id.bitIndex()&1 == 1
}

// Len returns the number of members.
func (s IdentitySet) Len() int {
	n := 0
	for b := s.bits; b != 0; b &= b - 1 {
		n++
	}
	return n
}

// IsEmpty reports whether the set has no members.
func (s IdentitySet) IsEmpty() bool { return s.bits == 0 }

// Equal reports whether both sets have identical members.
func (s IdentitySet) Equal(o IdentitySet) bool { return s.bits == o.bits }

// With returns a copy of s with id added.
func (s IdentitySet) With(id Identity) IdentitySet {
	s.bits |= 1 << id.bitIndex()
	return s
}

// Without returns a copy of s with id removed.
func (s IdentitySet) Without(id Identity) IdentitySet {
	s.bits &^= 1 << id.bitIndex()
	return s
}

// Intersect returns the identities present in both sets.
func (s IdentitySet) Intersect(o IdentitySet) IdentitySet {
	s.bits &= o.bits
	return s
}

// Union returns the identities present in either set.
func (s IdentitySet) Union(o IdentitySet) IdentitySet {
	s.bits |= o.bits
	return s
}

// Subtract returns the identities of s not present in o.
func (s IdentitySet) Subtract(o IdentitySet) IdentitySet {
	s.bits &^= o.bits
	return s
}

// Filter returns the members for which keep returns true.
func (s IdentitySet) Filter(keep func(Identity) bool) IdentitySet {
	out := IdentitySet{numSuits: s.numSuits}
	for _, id := range s.Identities() {
		if keep(id) {
			out = out.With(id)
		}
	}
	return out
}

// Single returns the sole member when the set is a singleton.
func (s IdentitySet) Single() (Identity, bool) {
	if s.bits == 0 || s.bits&(s.bits-1) != 0 {
		return Identity{}, false
	}
	return s.Identities()[0], true
}

// Identities returns the members in (suit, rank) order.
func (s IdentitySet) Identities() []Identity {
	out := make([]Identity, 0, s.Len())
	for suit := 0; suit < int(s.numSuits); suit++ {
		for rank := MinRank; rank <= MaxRank; rank++ {
			id := Identity{SuitIndex: suit, Rank: rank}
			if s.bits>>id.bitIndex()&1 == 1 {
				out = append(out, id)
			}
		}
	}
	return out
}
