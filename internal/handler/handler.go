// Package handler maps key and mouse events onto application state and
// outbound engine commands.
package handler

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/nick/transcriber/internal/app"
	"github.com/nick/transcriber/internal/config"
	"github.com/nick/transcriber/internal/event"
	"github.com/nick/transcriber/internal/layout"
	"github.com/nick/transcriber/internal/logging"
	"github.com/nick/transcriber/internal/protocol"
)

// StatusUnavailable is shown when a command is issued without a connection.
const StatusUnavailable = "Socket connection not available"

// forceQuit is honoured in every input mode.
var forceQuit = key.NewBinding(key.WithKeys("ctrl+c"))

type Handler struct {
	keys     KeyMap
	language string
	layout   config.LayoutConfig
	log      *logging.Logger
}

func New(cfg *config.TranscriberConfig, log *logging.Logger) *Handler {
	if log == nil {
		log = logging.Nop()
	}
	return &Handler{
		keys:     NewKeyMap(cfg.Keybinding),
		language: cfg.Language,
		layout:   cfg.Layout,
		log:      log.Child("handler"),
	}
}

// Keys exposes the bindings for help rendering.
func (h *Handler) Keys() KeyMap { return h.keys }

func (h *Handler) HandleKey(s *app.State, k event.Key) {
	if matches(k, forceQuit) {
		s.Quit()
		return
	}
	if s.Filter.Active {
		h.handleFilterKey(s, k)
		return
	}

	switch {
	case matches(k, h.keys.Quit):
		s.Quit()
	case matches(k, h.keys.Increment):
		s.Increment()
	case matches(k, h.keys.Decrement):
		s.Decrement()
	case matches(k, h.keys.Toggle):
		h.toggle(s)
	case matches(k, h.keys.Filter):
		s.StartFilter()
	case matches(k, h.keys.ToggleHelp):
		s.ShowHelp = !s.ShowHelp
	}
}

func (h *Handler) handleFilterKey(s *app.State, k event.Key) {
	switch {
	case matches(k, h.keys.FilterSubmit):
		s.SubmitFilter()
	case matches(k, h.keys.FilterEscape):
		s.ClearFilter()
	case matches(k, h.keys.FilterDelete):
		s.BackspaceFilter()
	case len(k.Runes) > 0:
		s.AppendFilter(k.Runes)
	}
}

// HandleMouse sends an activate command for any button press inside the
// button. Mouse presses do not advance the toggle odometer.
func (h *Handler) HandleMouse(s *app.State, m event.Mouse) {
	if !m.IsPress() {
		return
	}
	if !layout.Button(s.Viewport, h.layout).Contains(m.X, m.Y) {
		return
	}
	h.log.Debug().Int("x", m.X).Int("y", m.Y).Msg("button pressed")

	conn, ok := s.Conn()
	if !ok {
		h.unavailable(s)
		return
	}
	h.send(s, conn, protocol.Activate(h.language))
}

func (h *Handler) toggle(s *app.State) {
	conn, ok := s.Conn()
	if !ok {
		h.unavailable(s)
		return
	}

	cmd := protocol.Deactivate()
	if s.AdvanceToggle()%2 == 1 {
		cmd = protocol.Activate(h.language)
	}
	h.send(s, conn, cmd)
}

func (h *Handler) send(s *app.State, conn app.Conn, cmd protocol.Command) {
	line, err := cmd.Encode()
	if err != nil {
		h.log.Error().Err(err).Msg("encode command")
		s.SetStatus("encode failed: " + err.Error())
		return
	}
	if err := conn.Send(line); err != nil {
		h.log.Error().Err(err).Str("event", cmd.Event.String()).Msg("send command")
		s.SetStatus("send failed: " + err.Error())
		return
	}
	h.log.Info().Str("event", cmd.Event.String()).Str("language", cmd.Language).Msg("command sent")
	s.SetStatus("sent transcribe " + cmd.Event.String())
}

func (h *Handler) unavailable(s *app.State) {
	reason := ""
	if d, ok := s.Link.(app.Disconnected); ok {
		reason = d.Reason
	}
	h.log.Warn().Str("reason", reason).Msg("socket connection not available")
	s.SetStatus(StatusUnavailable)
}
