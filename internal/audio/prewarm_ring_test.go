package audio

import "testing"

func TestPrewarmRingEvictsOldestOnOverflow(t *testing.T) {
	t.Parallel()

	ring := NewPrewarmRing(10)
	ring.Push([]byte("aaaaa"))
	ring.Push([]byte("bbbbb"))
	ring.Push([]byte("ccccc"))

	if got := ring.Len(); got != 10 {
		t.Fatalf("expected ring bounded to capacity, got %d bytes", got)
	}

	drained := ring.Drain()
	if len(drained) != 2 {
		t.Fatalf("expected 2 surviving chunks, got %d", len(drained))
	}
	if string(drained[0]) != "bbbbb" || string(drained[1]) != "ccccc" {
		t.Fatalf("expected oldest chunk evicted, got %v", drained)
	}
}

func TestPrewarmRingDrainEmptiesRing(t *testing.T) {
	t.Parallel()

	ring := NewPrewarmRing(100)
	ring.Push([]byte("hello"))

	if drained := ring.Drain(); len(drained) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(drained))
	}
	if ring.Len() != 0 {
		t.Fatalf("expected ring empty after drain")
	}
	if drained := ring.Drain(); drained != nil {
		t.Fatalf("expected nil on drain of empty ring, got %v", drained)
	}
}
