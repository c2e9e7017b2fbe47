package action

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-errors/errors"
)

// Kind tags the variant of an Action.
type Kind int

const (
	Play Kind = iota + 1
	Pause
	Resume
	Next
	Previous
	Shuffle
	ToggleHotspot
	VolumeUp
	VolumeDown
)

var kindNames = map[Kind]string{
	Play:          "Play",
	Pause:         "Pause",
	Resume:        "Resume",
	Next:          "Next",
	Previous:      "Previous",
	Shuffle:       "Shuffle",
	ToggleHotspot: "ToggleHotspot",
	VolumeUp:      "VolumeUp",
	VolumeDown:    "VolumeDown",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "INVALID"
}

// ParseKind resolves a variant name as it appears in the library document.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}

	return 0, errors.Errorf("unknown action %q", name)
}

// Action is what a card does when it is presented. The zero value is not a
// valid action. Track is only set for Play.
type Action struct {
	kind  Kind
	track string
}

// New creates a non-Play action.
func New(kind Kind) Action {
	return Action{kind: kind}
}

// NewPlay creates a Play action for the track at the given path.
func NewPlay(track string) Action {
	return Action{kind: Play, track: track}
}

func (a Action) Kind() Kind {
	return a.kind
}

func (a Action) Track() string {
	return a.track
}

func (a Action) Valid() bool {
	_, ok := kindNames[a.kind]
	return ok && (a.kind != Play || a.track != "")
}

func (a Action) String() string {
	if a.kind == Play {
		return fmt.Sprintf("Play(%s)", a.track)
	}

	return a.kind.String()
}

// MarshalJSON encodes unit variants as a bare string and Play as
// {"Play": "<track>"}.
func (a Action) MarshalJSON() ([]byte, error) {
	if !a.Valid() {
		return nil, errors.Errorf("cannot encode invalid action %v", a)
	}

	if a.kind == Play {
		return json.Marshal(map[string]string{kindNames[Play]: a.track})
	}

	return json.Marshal(kindNames[a.kind])
}

func (a *Action) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return errors.Errorf("could not decode action: %v", err)
		}

		kind, err := ParseKind(name)
		if err != nil {
			return err
		}

		if kind == Play {
			return errors.New("Play requires a track")
		}

		*a = New(kind)
		return nil
	}

	var tagged map[string]string
	if err := json.Unmarshal(data, &tagged); err != nil {
		return errors.Errorf("could not decode action: %v", err)
	}

	if len(tagged) != 1 {
		return errors.Errorf("expected a single tagged action, got %d keys", len(tagged))
	}

	track, ok := tagged[kindNames[Play]]
	if !ok || track == "" {
		return errors.Errorf("unsupported tagged action %s", string(data))
	}

	*a = NewPlay(track)
	return nil
}
