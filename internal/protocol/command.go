package protocol

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// Event is the value of a command's "event" field.
type Event string

const (
	EventOn  Event = "on"
	EventOff Event = "off"
)

func (e Event) String() string {
	return string(e)
}

// TypeTranscribe is the only command type the engine understands.
const TypeTranscribe = "transcribe"

// Command is an outbound request to the engine. Language is only set on
// "on" commands.
type Command struct {
	Event    Event  `json:"event"`
	Type     string `json:"type"`
	Language string `json:"language,omitempty"`
}

// Activate asks the engine to start transcribing in language.
func Activate(language string) Command {
	return Command{Event: EventOn, Type: TypeTranscribe, Language: language}
}

// Deactivate asks the engine to stop transcribing.
func Deactivate() Command {
	return Command{Event: EventOff, Type: TypeTranscribe}
}

// Encode renders the command as a single newline-terminated JSON line.
func (c Command) Encode() (string, error) {
	if c.Event == EventOff {
		c.Language = ""
	}
	data, err := json.Marshal(c)
	if err != nil {
		return "", errors.Wrap(err, "marshal command")
	}
	return string(data) + "\n", nil
}

// Parse decodes one command line, with or without its trailing newline.
func Parse(line string) (Command, error) {
	var c Command
	if err := json.Unmarshal([]byte(strings.TrimRight(line, "\r\n")), &c); err != nil {
		return Command{}, errors.Wrap(err, "unmarshal command")
	}
	switch c.Event {
	case EventOn, EventOff:
	default:
		return Command{}, errors.Errorf("unknown event %q", c.Event)
	}
	if c.Type != TypeTranscribe {
		return Command{}, errors.Errorf("unknown command type %q", c.Type)
	}
	return c, nil
}
