package action

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionJSONFormat(t *testing.T) {
	payload, err := json.Marshal(NewPlay("music/01.mp3"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"Play":"music/01.mp3"}`, string(payload))

	payload, err = json.Marshal(New(ToggleHotspot))
	require.NoError(t, err)
	assert.Equal(t, `"ToggleHotspot"`, string(payload))
}

func TestActionDecodesOriginalDocument(t *testing.T) {
	var actions []Action
	err := json.Unmarshal([]byte(`[{"Play":"a.mp3"},"Pause","Resume","Next","Previous","Shuffle","VolumeUp","VolumeDown"]`), &actions)
	require.NoError(t, err)

	kinds := make([]Kind, 0, len(actions))
	for _, a := range actions {
		kinds = append(kinds, a.Kind())
	}

	assert.Equal(t, []Kind{Play, Pause, Resume, Next, Previous, Shuffle, VolumeUp, VolumeDown}, kinds)
	assert.Equal(t, "a.mp3", actions[0].Track())
}

func TestActionRejectsMalformed(t *testing.T) {
	for _, raw := range []string{`"Dance"`, `"Play"`, `{"Play":""}`, `{"Stop":"x"}`, `{"Play":"a","Pause":"b"}`, `42`} {
		var a Action
		assert.Error(t, json.Unmarshal([]byte(raw), &a), raw)
	}
}

func TestInvalidActionDoesNotEncode(t *testing.T) {
	_, err := json.Marshal(Action{})
	assert.Error(t, err)

	_, err = json.Marshal(NewPlay(""))
	assert.Error(t, err)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "Play(x.mp3)", NewPlay("x.mp3").String())
	assert.Equal(t, "Shuffle", New(Shuffle).String())
	assert.Equal(t, "INVALID", Kind(99).String())
}
