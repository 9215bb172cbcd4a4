package composition

// Package composition computes amino-acid composition profiles over the
// canonical 20-letter protein alphabet. The alphabet is shared with the
// profile table so column order and counting never drift apart.

import (
	"errors"
	"strings"
)

// Alphabet is the canonical amino-acid alphabet, in column order.
const Alphabet = "ACDEFGHIKLMNPQRSTVWY"

// Size is the number of canonical symbols.
const Size = len(Alphabet)

// ErrEmptyComposition is returned when a sequence has no canonical residues,
// so no percentage can be computed.
var ErrEmptyComposition = errors.New("sequence contains no canonical amino-acid residues")

// Index returns the column of symbol in Alphabet, or -1 if it is not canonical.
func Index(symbol byte) int {
	return strings.IndexByte(Alphabet, symbol)
}

// Profile holds the percentage of each canonical residue, indexed like Alphabet.
type Profile struct {
	values [Size]float64
}

// NewProfile builds a Profile from values already ordered like Alphabet.
func NewProfile(values [Size]float64) Profile {
	return Profile{values: values}
}

// Percent returns the percentage for symbol, 0 for non-canonical symbols.
func (p Profile) Percent(symbol byte) float64 {
	i := Index(symbol)
	if i < 0 {
		return 0
	}
	return p.values[i]
}

// Values returns a copy of the percentages in Alphabet order.
func (p Profile) Values() [Size]float64 {
	return p.values
}

// Sum adds all percentages; it is 100 within float tolerance for a computed profile.
func (p Profile) Sum() float64 {
	var s float64
	for _, v := range p.values {
		s += v
	}
	return s
}

// Compute counts the canonical residues in seq and returns their relative
// frequencies as percentages. Matching is case-sensitive; every other byte
// (gaps, stop codons, ambiguity codes, lowercase) is ignored entirely.
func Compute(seq string) (Profile, error) {
	var counts [Size]int
	total := 0
	for i := 0; i < len(seq); i++ {
		if j := Index(seq[i]); j >= 0 {
			counts[j]++
			total++
		}
	}
	if total == 0 {
		return Profile{}, ErrEmptyComposition
	}
	var p Profile
	for i, c := range counts {
		p.values[i] = float64(c) / float64(total) * 100
	}
	return p, nil
}
