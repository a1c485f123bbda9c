package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestChannelDeterminism(t *testing.T) {
	run := func() ([]byte, []string) {
		c := NewChannel()
		c.Absorb([]byte("commitment-1"))
		f := c.SqueezeFelt()
		c.Absorb([]byte("commitment-2"))
		g := c.SqueezeFelt()
		_ = f
		_ = g
		return c.State(), c.Transcript()
	}

	state1, log1 := run()
	state2, log2 := run()

	if !bytes.Equal(state1, state2) {
		t.Error("identical interactions produced different states")
	}
	if len(log1) != len(log2) {
		t.Fatalf("transcript lengths differ: %d vs %d", len(log1), len(log2))
	}
	for i := range log1 {
		if log1[i] != log2[i] {
			t.Errorf("transcript entry %d differs: %q vs %q", i, log1[i], log2[i])
		}
	}
}

func TestChannelAbsorbChangesState(t *testing.T) {
	c := NewChannel()
	before := c.State()
	c.Absorb([]byte("data"))
	if bytes.Equal(before, c.State()) {
		t.Error("absorb did not change the state")
	}
}

func TestChannelChallengesDependOnHistory(t *testing.T) {
	a := NewChannel()
	a.Absorb([]byte("root-a"))

	b := NewChannel()
	b.Absorb([]byte("root-b"))

	if a.SqueezeFelt().Equal(b.SqueezeFelt()) {
		t.Error("different absorptions yielded the same challenge")
	}
}

func TestChannelSqueezeAdvancesState(t *testing.T) {
	c := NewChannel()
	c.Absorb([]byte("root"))

	first := c.SqueezeFelt()
	second := c.SqueezeFelt()
	if first.Equal(second) {
		t.Error("consecutive squeezes yielded the same challenge")
	}
}

func TestChannelSqueezeFelts(t *testing.T) {
	c := NewChannel()
	c.Absorb([]byte("root"))

	felts := c.SqueezeFelts(5)
	if len(felts) != 5 {
		t.Fatalf("got %d elements, want 5", len(felts))
	}
	for i := 0; i < len(felts); i++ {
		for j := i + 1; j < len(felts); j++ {
			if felts[i].Equal(felts[j]) {
				t.Errorf("challenges %d and %d collide", i, j)
			}
		}
	}

	if got := c.SqueezeFelts(0); len(got) != 0 {
		t.Errorf("SqueezeFelts(0) returned %d elements", len(got))
	}
}

func TestChannelTranscriptRecordsInteractions(t *testing.T) {
	c := NewChannel()
	c.Absorb([]byte{0xAB})
	c.SqueezeFelt()

	log := c.Transcript()
	if len(log) != 2 {
		t.Fatalf("transcript has %d entries, want 2", len(log))
	}
	if !strings.HasPrefix(log[0], "absorb:ab") {
		t.Errorf("unexpected first entry %q", log[0])
	}
	if !strings.HasPrefix(log[1], "squeeze:") {
		t.Errorf("unexpected second entry %q", log[1])
	}
	if !strings.Contains(c.String(), "absorb:ab") {
		t.Errorf("String() missing absorb entry: %q", c.String())
	}
}
