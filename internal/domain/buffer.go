package domain

// Buffer is an ordered sequence of frames deferred by an open transaction.
// Insertion order is send order: frames drain FIFO on flush. A buffer is
// owned by exactly one producer and is never shared.
type Buffer struct {
	frames []Frame
}

// NewBuffer creates a new empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{frames: make([]Frame, 0)}
}

// Append adds a frame at the tail of the buffer.
func (b *Buffer) Append(f Frame) {
	b.frames = append(b.frames, f)
}

// Head returns the oldest frame without removing it.
// The second result is false if the buffer is empty.
func (b *Buffer) Head() (Frame, bool) {
	if len(b.frames) == 0 {
		return Frame{}, false
	}
	return b.frames[0], true
}

// Pop removes the oldest frame.
func (b *Buffer) Pop() {
	if len(b.frames) > 0 {
		b.frames = b.frames[1:]
	}
}

// Len returns the number of buffered frames.
func (b *Buffer) Len() int {
	return len(b.frames)
}

// Clear discards all buffered frames.
func (b *Buffer) Clear() {
	b.frames = b.frames[:0]
}

// Snapshot returns an independent copy of the current contents, used by the
// scoped-transaction helper to restore pre-scope state on rollback.
func (b *Buffer) Snapshot() []Frame {
	out := make([]Frame, len(b.frames))
	copy(out, b.frames)
	return out
}

// Restore replaces the buffer contents with a previously taken snapshot.
func (b *Buffer) Restore(frames []Frame) {
	b.frames = append(b.frames[:0], frames...)
}
