package controls

// MouseTracker converts absolute pointer positions into deltas.
type MouseTracker struct {
	lastX, lastY int
	primed       bool
}

// Move records a position and returns the delta from the previous one.
// ok is false for the first sample, whose delta would be a jump from an
// unknown origin.
func (m *MouseTracker) Move(x, y int) (dx, dy float32, ok bool) {
	if !m.primed {
		m.lastX, m.lastY = x, y
		m.primed = true
		return 0, 0, false
	}
	dx = float32(x - m.lastX)
	dy = float32(y - m.lastY)
	m.lastX, m.lastY = x, y
	return dx, dy, true
}

// Reset discards the previous position.
func (m *MouseTracker) Reset() {
	m.primed = false
}
