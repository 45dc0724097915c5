package fingerprint

import (
	"math/rand/v2"
	"strings"
	"testing"
)

func TestCompareExact(t *testing.T) {
	t.Parallel()

	gen := NewExactGenerator(nil)

	t.Run("same url scores 100", func(t *testing.T) {
		t.Parallel()

		a, _ := gen.Fingerprint("https://a.com/x.png", 12)
		b, _ := gen.Fingerprint("https://a.com/x.png", 12)

		sim := CompareExact(a, b)
		if !sim.Computable || sim.Percent != 100 || !sim.Match {
			t.Errorf("expected 100%% match, got %+v", sim)
		}
		if sim.FormatExact() != "100%" {
			t.Errorf("expected 100%%, got %q", sim.FormatExact())
		}
	})

	t.Run("different urls score 0 with no partial credit", func(t *testing.T) {
		t.Parallel()

		a, _ := gen.Fingerprint("https://a.com/x.png", 12)
		b, _ := gen.Fingerprint("https://a.com/y.png", 12)

		sim := CompareExact(a, b)
		if !sim.Computable || sim.Percent != 0 || sim.Match {
			t.Errorf("expected 0%% different, got %+v", sim)
		}
		if sim.FormatExact() != "0%" {
			t.Errorf("expected 0%%, got %q", sim.FormatExact())
		}
	})

	t.Run("missing side is not computable", func(t *testing.T) {
		t.Parallel()

		sim := CompareExact([]byte{1, 2, 3, 4, 5, 6}, nil)
		if sim.Computable {
			t.Errorf("expected not computable, got %+v", sim)
		}
		if sim.FormatExact() != "-" {
			t.Errorf("expected '-', got %q", sim.FormatExact())
		}
	})
}

func TestCompareBits(t *testing.T) {
	t.Parallel()

	t.Run("16 bits differing in 4 positions is 75 percent", func(t *testing.T) {
		t.Parallel()

		a := NewBitVector("1111000011110000")
		b := NewBitVector("0000000011110000")

		sim := CompareBits(a, b)
		if !sim.Computable {
			t.Fatalf("expected computable similarity, got %+v", sim)
		}
		if sim.Distance != 4 {
			t.Errorf("expected distance 4, got %d", sim.Distance)
		}
		if sim.Percent != 75 {
			t.Errorf("expected 75, got %v", sim.Percent)
		}
		if got := sim.FormatPerceptual(); got != "75.0%" {
			t.Errorf("expected 75.0%%, got %q", got)
		}
		if sim.Match {
			t.Error("expected no match below 100 percent")
		}
	})

	t.Run("identical vectors match", func(t *testing.T) {
		t.Parallel()

		v := NewBitVector("10101010")
		sim := CompareBits(v, v)
		if !sim.Match || sim.Percent != 100 {
			t.Errorf("expected 100%% match, got %+v", sim)
		}
		if sim.Badge() != "✓ Match" {
			t.Errorf("unexpected badge %q", sim.Badge())
		}
	})

	t.Run("inverted vectors score 0", func(t *testing.T) {
		t.Parallel()

		sim := CompareBits(NewBitVector("1111"), NewBitVector("0000"))
		if !sim.Computable || sim.Percent != 0 {
			t.Errorf("expected 0 percent, got %+v", sim)
		}
	})

	t.Run("length mismatch is not computable", func(t *testing.T) {
		t.Parallel()

		sim := CompareBits(NewBitVector("1111"), NewBitVector("11110"))
		if sim.Computable {
			t.Fatalf("expected not computable, got %+v", sim)
		}
		if !strings.Contains(sim.Reason, ErrNotComputable.Error()) {
			t.Errorf("expected reason to mention %q, got %q", ErrNotComputable, sim.Reason)
		}
		if sim.Badge() != "n/a" {
			t.Errorf("unexpected badge %q", sim.Badge())
		}
	})

	t.Run("missing side is not computable", func(t *testing.T) {
		t.Parallel()

		if sim := CompareBits(nil, NewBitVector("1010")); sim.Computable {
			t.Errorf("expected not computable, got %+v", sim)
		}
	})
}

func TestHammingBound(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(1, 2))
	for range 500 {
		n := MinBits + r.IntN(MaxBits-MinBits+1)
		a := make(BitVector, n)
		b := make(BitVector, n)
		for i := range n {
			a[i] = r.IntN(2) == 1
			b[i] = r.IntN(2) == 1
		}

		d, ok := a.HammingDistance(b)
		if !ok {
			t.Fatalf("expected equal lengths to be comparable")
		}
		if d < 0 || d > n {
			t.Fatalf("distance %d outside [0,%d]", d, n)
		}

		sim := CompareBits(a, b)
		if sim.Percent < 0 || sim.Percent > 100 {
			t.Fatalf("similarity %v outside [0,100]", sim.Percent)
		}
	}
}

func TestBitVector(t *testing.T) {
	t.Parallel()

	t.Run("round trips through String", func(t *testing.T) {
		t.Parallel()

		const bits = "101100001"
		if got := NewBitVector(bits).String(); got != bits {
			t.Errorf("got %q, want %q", got, bits)
		}
	})

	t.Run("packs MSB first with zero padding", func(t *testing.T) {
		t.Parallel()

		got := NewBitVector("101100001").Bytes()
		want := []byte{0xB0, 0x80}
		if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
			t.Errorf("got %x, want %x", got, want)
		}
	})

	t.Run("encodes url-safe without padding", func(t *testing.T) {
		t.Parallel()

		// 0xFB 0xFF encodes to "+/8=" in standard base64.
		got := Encode([]byte{0xFB, 0xFF})
		if got != "-_8" {
			t.Errorf("got %q, want %q", got, "-_8")
		}
		if EncodeBits(NewBitVector("1111101111111111")) != "-_8" {
			t.Errorf("EncodeBits does not match Encode of packed bytes")
		}
	})
}
