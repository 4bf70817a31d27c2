// Package app holds the application state driven by the dispatch loop.
//
// State is not safe for concurrent use. The loop goroutine owns it; other
// goroutines only ever see a Snapshot.
package app

import (
	"strings"
)

// MaxCounter is the upper bound of the saturating counter.
const MaxCounter = 255

// WelcomeMessage seeds the response log.
const WelcomeMessage = "Welcome to the application!"

type Viewport struct {
	Width  int
	Height int
}

// Filter is the response-log filter prompt.
type Filter struct {
	Active bool
	Query  string
}

type State struct {
	Running   bool
	Counter   uint8
	Responses []string
	Viewport  Viewport
	Link      Link

	// Status is the most recent diagnostic shown in the footer.
	Status   string
	Filter   Filter
	ShowHelp bool

	toggles uint64
}

// NewState returns a running state with the welcome entry logged. A nil link
// is treated as Disconnected.
func NewState(link Link) *State {
	if link == nil {
		link = Disconnected{Reason: "not connected"}
	}
	return &State{
		Running:   true,
		Responses: []string{WelcomeMessage},
		Link:      link,
	}
}

func (s *State) Increment() {
	if s.Counter < MaxCounter {
		s.Counter++
	}
}

func (s *State) Decrement() {
	if s.Counter > 0 {
		s.Counter--
	}
}

func (s *State) Quit() { s.Running = false }

func (s *State) Resize(width, height int) {
	s.Viewport = Viewport{Width: width, Height: height}
}

// AppendResponse adds an inbound line verbatim.
func (s *State) AppendResponse(line string) {
	s.Responses = append(s.Responses, line)
}

// Conn returns the transport handle when connected.
func (s *State) Conn() (Conn, bool) {
	c, ok := s.Link.(Connected)
	if !ok || c.Conn == nil {
		return nil, false
	}
	return c.Conn, true
}

// AdvanceToggle bumps the toggle odometer and returns the new count.
func (s *State) AdvanceToggle() uint64 {
	s.toggles++
	return s.toggles
}

// Toggles reports how many toggles have been sent.
func (s *State) Toggles() uint64 { return s.toggles }

// Recording reports whether the last toggle activated transcription.
func (s *State) Recording() bool { return s.toggles%2 == 1 }

func (s *State) SetStatus(msg string) { s.Status = msg }

// CloseLink closes the transport if one is held. The state becomes
// Disconnected so the handle is released exactly once.
func (s *State) CloseLink() error {
	c, ok := s.Conn()
	if !ok {
		return nil
	}
	s.Link = Disconnected{Reason: "closed"}
	return c.Close()
}

// Snapshot is an immutable view of State for rendering.
type Snapshot struct {
	Counter   uint8
	Responses []string
	Visible   []string
	Viewport  Viewport
	Link      string
	Connected bool
	Recording bool
	Status    string
	Filter    Filter
	ShowHelp  bool
}

func (s *State) Snapshot() Snapshot {
	n := len(s.Responses)
	// Responses is append-only, so the capped prefix is never written again.
	responses := s.Responses[:n:n]
	_, connected := s.Conn()
	return Snapshot{
		Counter:   s.Counter,
		Responses: responses,
		Visible:   s.FilteredResponses(),
		Viewport:  s.Viewport,
		Link:      describeLink(s.Link),
		Connected: connected,
		Recording: s.Recording(),
		Status:    s.Status,
		Filter:    s.Filter,
		ShowHelp:  s.ShowHelp,
	}
}

// DisplayLine strips the line delimiter kept on inbound responses.
func DisplayLine(line string) string {
	return strings.TrimRight(line, "\r\n")
}
