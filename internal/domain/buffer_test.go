package domain

import "testing"

func frame(dest string) Frame {
	return NewFrame(dest, nil, nil, nil)
}

func TestBufferFIFO(t *testing.T) {
	b := NewBuffer()
	b.Append(frame("/a"))
	b.Append(frame("/b"))
	b.Append(frame("/c"))

	want := []string{"/a", "/b", "/c"}
	for _, w := range want {
		f, ok := b.Head()
		if !ok {
			t.Fatalf("Head() empty, want %s", w)
		}
		if f.Destination != w {
			t.Fatalf("Head() = %s, want %s", f.Destination, w)
		}
		b.Pop()
	}
	if b.Len() != 0 {
		t.Errorf("Len() = %d after draining, want 0", b.Len())
	}
}

func TestBufferSnapshotRestore(t *testing.T) {
	b := NewBuffer()
	b.Append(frame("/outer"))

	snap := b.Snapshot()

	b.Append(frame("/inner"))
	b.Clear()
	if b.Len() != 0 {
		t.Fatalf("Len() = %d after Clear, want 0", b.Len())
	}

	b.Restore(snap)
	if b.Len() != 1 {
		t.Fatalf("Len() = %d after Restore, want 1", b.Len())
	}
	f, _ := b.Head()
	if f.Destination != "/outer" {
		t.Errorf("restored head = %s, want /outer", f.Destination)
	}
}

func TestBufferSnapshotIsIndependent(t *testing.T) {
	b := NewBuffer()
	b.Append(frame("/a"))
	snap := b.Snapshot()

	b.Pop()
	if len(snap) != 1 || snap[0].Destination != "/a" {
		t.Error("snapshot changed after buffer mutation")
	}
}
