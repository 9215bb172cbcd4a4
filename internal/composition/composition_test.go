package composition

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestComputeToyRecord(t *testing.T) {
	p, err := Compute("AACCDD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 100.0 / 3.0
	for _, s := range []byte("ACD") {
		if math.Abs(p.Percent(s)-want) > 1e-9 {
			t.Fatalf("expected %c=%v, got %v", s, want, p.Percent(s))
		}
	}
	for i := 0; i < Size; i++ {
		s := Alphabet[i]
		if s == 'A' || s == 'C' || s == 'D' {
			continue
		}
		if p.Percent(s) != 0 {
			t.Fatalf("expected %c=0, got %v", s, p.Percent(s))
		}
	}
}

func TestComputeSumsToHundred(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for n := 0; n < 200; n++ {
		length := 1 + rng.Intn(500)
		buf := make([]byte, length)
		for i := range buf {
			buf[i] = Alphabet[rng.Intn(Size)]
		}
		p, err := Compute(string(buf))
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", buf, err)
		}
		if math.Abs(p.Sum()-100) > 1e-9 {
			t.Fatalf("expected sum 100, got %v for %q", p.Sum(), buf)
		}
	}
}

func TestComputeIgnoresNonCanonical(t *testing.T) {
	clean, err := Compute("MKTAYIAKQR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	noisy, err := Compute("M-KT*AXYIB AKQZRu\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clean.Values() != noisy.Values() {
		t.Fatalf("non-canonical characters changed the profile:\n%v\n%v", clean.Values(), noisy.Values())
	}
}

func TestComputeEmpty(t *testing.T) {
	for _, seq := range []string{"", "-----", "xbzou*", "acdefg"} {
		_, err := Compute(seq)
		if !errors.Is(err, ErrEmptyComposition) {
			t.Fatalf("expected ErrEmptyComposition for %q, got %v", seq, err)
		}
	}
}

func TestComputeDeterministic(t *testing.T) {
	a, _ := Compute("MSTNPKPQRKTKRNTNRRPQDVKFPGG")
	b, _ := Compute("MSTNPKPQRKTKRNTNRRPQDVKFPGG")
	if a != b {
		t.Fatalf("expected identical profiles, got %v and %v", a, b)
	}
}

func TestIndex(t *testing.T) {
	if Index('A') != 0 || Index('Y') != Size-1 {
		t.Fatalf("unexpected alphabet order: A=%d Y=%d", Index('A'), Index('Y'))
	}
	if Index('B') != -1 || Index('a') != -1 {
		t.Fatalf("expected non-canonical symbols to have no index")
	}
}
