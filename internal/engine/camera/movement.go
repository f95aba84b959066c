package camera

// Movement is an abstract camera command, kept separate from any window
// system's key codes.
type Movement int

const (
	Forward Movement = iota
	Backward
	Left
	Right
	Closer
	Away
	Up
	Down
)

var movementNames = [...]string{
	Forward:  "forward",
	Backward: "backward",
	Left:     "left",
	Right:    "right",
	Closer:   "closer",
	Away:     "away",
	Up:       "up",
	Down:     "down",
}

// String returns the lower-case movement name.
func (m Movement) String() string {
	if m < 0 || int(m) >= len(movementNames) {
		return "unknown"
	}
	return movementNames[m]
}
