package library

import (
	"encoding/hex"
	"encoding/json"
	"math/rand"
	"sort"
	"strings"

	"github.com/go-errors/errors"
	"github.com/marlinbox/marlind/action"
)

// Library maps card identities to the action they trigger. A card that is
// present without an action is known but unbound; pairing reserves cards this
// way until they get bound.
//
// A Library is not safe for concurrent use. The jukebox owns it exclusively.
type Library struct {
	music map[string]*action.Action
}

// Entry is a snapshot of a single card in the library.
type Entry struct {
	Card   string
	Action *action.Action
}

func New() *Library {
	return &Library{
		music: make(map[string]*action.Action),
	}
}

// CardSize is the number of bytes in a card identity read from a card.
const CardSize = 8

// ValidCard reports whether card is the hex form of an identity a reader can
// produce.
func ValidCard(card string) bool {
	b, err := hex.DecodeString(NormalizeCard(card))
	return err == nil && len(b) == CardSize
}

// NormalizeCard brings a card identity into its canonical upper-case hex form.
func NormalizeCard(card string) string {
	return strings.ToUpper(strings.TrimSpace(card))
}

// Lookup returns the action bound to the card. Unknown cards and known but
// unbound cards both report no action.
func (l *Library) Lookup(card string) (action.Action, bool) {
	a, _, bound := l.Entry(card)
	return a, bound
}

// Entry distinguishes unknown cards from known but unbound ones.
func (l *Library) Entry(card string) (a action.Action, known bool, bound bool) {
	held, known := l.music[NormalizeCard(card)]
	if !known || held == nil {
		return action.Action{}, known, false
	}

	return *held, true, true
}

// Reserve makes the card known without binding an action. Reserving a card that
// is already known leaves it untouched.
func (l *Library) Reserve(card string) {
	card = NormalizeCard(card)

	if _, ok := l.music[card]; !ok {
		l.music[card] = nil
	}
}

// Remove deletes the card and returns the action it held, if any.
func (l *Library) Remove(card string) (action.Action, bool) {
	card = NormalizeCard(card)

	a, ok := l.music[card]
	if !ok {
		return action.Action{}, false
	}

	delete(l.music, card)

	if a == nil {
		return action.Action{}, false
	}

	return *a, true
}

// Bind binds the card to the action, overwriting whatever it held before.
func (l *Library) Bind(card string, a action.Action) error {
	if !a.Valid() {
		return errors.Errorf("cannot bind invalid action %v", a)
	}

	l.music[NormalizeCard(card)] = &a

	return nil
}

// RandomAction picks uniformly among all bound cards.
func (l *Library) RandomAction(rng *rand.Rand) (action.Action, bool) {
	var bound []action.Action

	// Map iteration order is random; sorting keeps the draw reproducible for a
	// given rng state.
	for _, entry := range l.Entries() {
		if entry.Action != nil {
			bound = append(bound, *entry.Action)
		}
	}

	if len(bound) == 0 {
		return action.Action{}, false
	}

	return bound[rng.Intn(len(bound))], true
}

// Entries returns all cards sorted by identity.
func (l *Library) Entries() []Entry {
	entries := make([]Entry, 0, len(l.music))

	for card, a := range l.music {
		entry := Entry{Card: card}
		if a != nil {
			bound := *a
			entry.Action = &bound
		}

		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Card < entries[j].Card
	})

	return entries
}

func (l *Library) Len() int {
	return len(l.music)
}

func (l *Library) Clone() *Library {
	clone := New()

	for card, a := range l.music {
		if a == nil {
			clone.music[card] = nil
			continue
		}

		bound := *a
		clone.music[card] = &bound
	}

	return clone
}

// Equal reports whether both libraries hold the same cards and actions.
func (l *Library) Equal(other *Library) bool {
	if l.Len() != other.Len() {
		return false
	}

	for card, a := range l.music {
		b, ok := other.music[card]
		if !ok {
			return false
		}

		if (a == nil) != (b == nil) {
			return false
		}

		if a != nil && *a != *b {
			return false
		}
	}

	return true
}

type document struct {
	Music map[string]*action.Action `json:"music"`
}

func (l *Library) MarshalJSON() ([]byte, error) {
	return json.Marshal(&document{Music: l.music})
}

func (l *Library) UnmarshalJSON(data []byte) error {
	doc := document{}

	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	if doc.Music == nil {
		return errors.New("library document has no music mapping")
	}

	l.music = make(map[string]*action.Action, len(doc.Music))
	for card, a := range doc.Music {
		normalized := NormalizeCard(card)
		if _, ok := l.music[normalized]; ok {
			return errors.Errorf("card %v is listed more than once", normalized)
		}

		l.music[normalized] = a
	}

	return nil
}
