package manager

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/marlinbox/marlind/action"
	"github.com/marlinbox/marlind/audio"
	"github.com/marlinbox/marlind/hotspot"
	"github.com/marlinbox/marlind/jukebox"
	"github.com/marlinbox/marlind/library"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	manager    *Manager
	jukebox    *jukebox.Jukebox
	server     *httptest.Server
	store      *library.FileStore
	uploadsDir string
}

func newTestEnv(t *testing.T) *testEnv {
	dir := t.TempDir()

	assetsDir := filepath.Join(dir, "assets")
	require.NoError(t, os.MkdirAll(assetsDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(assetsDir, "index.html"), []byte("<h1>marlin</h1>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(assetsDir, "app.js"), []byte("pair()"), 0644))

	store := &library.FileStore{Path: filepath.Join(dir, "music.json"), Create: true}

	j := jukebox.NewJukebox(&jukebox.Config{
		Store:        store,
		Sink:         audio.NewMock(&audio.MockConfig{}),
		Hotspot:      hotspot.NewMock(nil),
		Cards:        make(chan string),
		PollInterval: time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		_ = j.Run(ctx)
	}()

	env := &testEnv{
		jukebox:    j,
		store:      store,
		uploadsDir: filepath.Join(dir, "uploads"),
	}

	env.manager = New(&Config{
		AssetsDir:  assetsDir,
		UploadsDir: env.uploadsDir,
	})
	env.manager.SetJukebox(j)

	env.server = httptest.NewServer(env.manager.Handler())

	t.Cleanup(func() {
		env.server.Close()
		cancel()
		<-done
	})

	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body io.Reader) *http.Response {
	req, err := http.NewRequest(method, e.server.URL+path, body)
	require.NoError(t, err)

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = res.Body.Close()
	})

	return res
}

func TestPairTriggersPairing(t *testing.T) {
	env := newTestEnv(t)

	res := env.do(t, http.MethodGet, "/pair", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	require.Eventually(t, func() bool {
		return env.jukebox.Status().Pairing
	}, 2*time.Second, 5*time.Millisecond)

	res = env.do(t, http.MethodPost, "/api/v1/pairing", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	require.Eventually(t, func() bool {
		return !env.jukebox.Status().Pairing
	}, 2*time.Second, 5*time.Millisecond)
}

func TestCardAdministration(t *testing.T) {
	env := newTestEnv(t)

	res := env.do(t, http.MethodPut, "/api/v1/cards/0102030405060708", strings.NewReader(`{"Play":"a.mp3"}`))
	require.Equal(t, http.StatusOK, res.StatusCode)

	res = env.do(t, http.MethodPut, "/api/v1/cards/aabbccddeeff0011", strings.NewReader(`"Shuffle"`))
	require.Equal(t, http.StatusOK, res.StatusCode)

	res = env.do(t, http.MethodGet, "/api/v1/cards", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var cards []cardResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&cards))
	require.Len(t, cards, 2)
	assert.Equal(t, "0102030405060708", cards[0].Card)
	assert.Equal(t, action.NewPlay("a.mp3"), *cards[0].Action)
	assert.Equal(t, "AABBCCDDEEFF0011", cards[1].Card)

	saved, err := env.store.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Len())

	res = env.do(t, http.MethodDelete, "/api/v1/cards/0102030405060708", nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res = env.do(t, http.MethodDelete, "/api/v1/cards/0102030405060708", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	saved, err = env.store.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Len())
}

func TestPutCardRejectsUnknownAction(t *testing.T) {
	env := newTestEnv(t)

	res := env.do(t, http.MethodPut, "/api/v1/cards/0102030405060708", strings.NewReader(`"Dance"`))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = env.do(t, http.MethodPut, "/api/v1/cards/0102030405060708", strings.NewReader(`"Play"`))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestPutCardRejectsMalformedId(t *testing.T) {
	env := newTestEnv(t)

	for _, id := range []string{"foo", "01", "0102030405060708090a"} {
		res := env.do(t, http.MethodPut, "/api/v1/cards/"+id, strings.NewReader(`"Pause"`))
		assert.Equal(t, http.StatusBadRequest, res.StatusCode, id)
	}

	saved, err := env.store.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, saved.Len())
}

func TestUploadKeepsBaseName(t *testing.T) {
	env := newTestEnv(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "../../song.mp3")
	require.NoError(t, err)
	_, err = part.Write([]byte("ID3"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/upload", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	uploaded := uploadResponse{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&uploaded))
	assert.Equal(t, []string{"song.mp3"}, uploaded.Files)

	content, err := os.ReadFile(filepath.Join(env.uploadsDir, "song.mp3"))
	require.NoError(t, err)
	assert.Equal(t, "ID3", string(content))
}

func TestUploadWithoutFile(t *testing.T) {
	env := newTestEnv(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("name", "value"))
	require.NoError(t, writer.Close())

	res := env.do(t, http.MethodPost, "/upload", body)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestStaticAssets(t *testing.T) {
	env := newTestEnv(t)

	res := env.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	content, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, "<h1>marlin</h1>", string(content))

	res = env.do(t, http.MethodGet, "/assets/app.js", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	content, err = io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, "pair()", string(content))
}

func TestStatusEndpoint(t *testing.T) {
	env := newTestEnv(t)

	res := env.do(t, http.MethodGet, "/api/v1/status", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	status := jukebox.Status{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&status))
	assert.False(t, status.Pairing)
	assert.False(t, status.Hotspot)
}

func TestEventsStreamStatus(t *testing.T) {
	env := newTestEnv(t)

	url := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/api/v1/events"

	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.SetReadDeadline(time.Now().Add(5*time.Second)))

	initial := jukebox.Status{}
	require.NoError(t, c.ReadJSON(&initial))
	assert.False(t, initial.Pairing)

	env.jukebox.TriggerPairing()

	for {
		status := jukebox.Status{}
		require.NoError(t, c.ReadJSON(&status))

		if status.Pairing {
			assert.NotEmpty(t, status.Session)
			return
		}
	}
}

func TestServeStopsOnShutdown(t *testing.T) {
	m := New(&Config{})

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	shutdown := make(chan struct{}, 1)
	done := make(chan error, 1)

	go func() {
		done <- m.serve(lis, shutdown)
	}()

	shutdown <- struct{}{}

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("manager did not stop")
	}
}

func TestServeFailsOnBusyAddress(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer lis.Close()

	m := New(&Config{Listen: lis.Addr().String()})
	assert.Error(t, m.Serve(make(chan struct{})))
}
