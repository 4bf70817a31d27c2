package e2e

// KeySequence represents a raw byte sequence for a key press.
type KeySequence string

const (
	KeyEnter     KeySequence = "\r"
	KeyRight     KeySequence = "\x1b[C"
	KeyLeft      KeySequence = "\x1b[D"
	KeySpace     KeySequence = " "
	KeyBackspace KeySequence = "\x7f"
	KeyCtrlC     KeySequence = "\x03"
)
