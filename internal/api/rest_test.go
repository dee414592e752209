package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	gorilla "github.com/gorilla/websocket"
	"github.com/hbomb79/Reel/internal/api"
	"github.com/hbomb79/Reel/internal/event"
	"github.com/hbomb79/Reel/internal/ffmpeg"
	"github.com/hbomb79/Reel/internal/importer"
	"github.com/hbomb79/Reel/pkg/logger"
	"github.com/hbomb79/Reel/tests/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitTimeout  = 5 * time.Second
	waitInterval = 20 * time.Millisecond
)

func init() {
	logger.SetMinLoggingLevel(logger.VERBOSE.Level())
}

type (
	mediaResponse struct {
		ID        uuid.UUID `json:"id"`
		ProxyPath *string   `json:"proxy_path"`
		MediaType string    `json:"media_type"`
		Metadata  struct {
			DurationMs *int64 `json:"duration_ms"`
			Width      *int   `json:"width"`
			Height     *int   `json:"height"`
		} `json:"metadata"`
		Status struct {
			Phase  string  `json:"phase"`
			Reason *string `json:"reason"`
		} `json:"status"`
	}

	settingsResponse struct {
		Resolution string `json:"resolution"`
		Width      *int   `json:"width"`
		Height     *int   `json:"height"`
		Codec      string `json:"codec"`
		Quality    uint32 `json:"quality"`
	}

	testServer struct {
		*api.RestGateway
		registry *importer.Registry
		url      string
	}
)

// startServer runs a registry (backed by fake ffmpeg binaries) and a gateway
// over it until the test completes. Requests are served by an httptest server
// rather than the listener owned by the gateway.
func startServer(t *testing.T) *testServer {
	gateway, err := ffmpeg.New(helpers.FakeFfmpegConfig(t))
	require.Nil(t, err)

	registry, err := importer.New(importer.Config{
		ProxyDirectory:      filepath.Join(t.TempDir(), "proxies"),
		VideoProxyExtension: "mp4",
		ImageProxyExtension: "jpg",
		AudioProxyExtension: "m4a",
	}, gateway, nil, event.New())
	require.Nil(t, err)

	rest := api.NewRestGateway(&api.RestConfig{HostAddr: "127.0.0.1:0"}, registry)

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.Nil(t, registry.Run(ctx))
	}()
	go func() {
		defer wg.Done()
		assert.Nil(t, rest.Run(ctx))
	}()

	server := httptest.NewServer(rest)
	t.Cleanup(func() {
		server.Close()
		cancel()
		wg.Wait()
	})

	return &testServer{RestGateway: rest, registry: registry, url: server.URL}
}

func (srv *testServer) do(t *testing.T, method string, path string, body string) (*http.Response, []byte) {
	req, err := http.NewRequest(method, srv.url+path, strings.NewReader(body))
	require.Nil(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.Nil(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.Nil(t, err)

	return resp, data
}

func (srv *testServer) importMedia(t *testing.T, path string) uuid.UUID {
	resp, body := srv.do(t, http.MethodPost, "/api/reel/v1/media/", `{"path":"`+path+`"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var created struct {
		ID uuid.UUID `json:"id"`
	}
	require.Nil(t, json.Unmarshal(body, &created))
	require.NotEqual(t, uuid.Nil, created.ID)

	return created.ID
}

func (srv *testServer) awaitPhase(t *testing.T, id uuid.UUID, phase string) mediaResponse {
	var media mediaResponse
	assert.EventuallyWithT(t, func(c *assert.CollectT) {
		resp, body := srv.do(t, http.MethodGet, "/api/reel/v1/media/"+id.String()+"/", "")
		if !assert.Equal(c, http.StatusOK, resp.StatusCode) {
			return
		}

		assert.Nil(c, json.Unmarshal(body, &media))
		assert.Equal(c, phase, media.Status.Phase)
	}, waitTimeout, waitInterval)

	return media
}

func TestMedia_ImportBecomesReady(t *testing.T) {
	srv := startServer(t)
	id := srv.importMedia(t, "/media/holiday.mkv")

	media := srv.awaitPhase(t, id, "ready")
	assert.Equal(t, id, media.ID)
	assert.Equal(t, "video", media.MediaType)
	assert.Nil(t, media.Status.Reason)
	if assert.NotNil(t, media.ProxyPath) {
		assert.FileExists(t, *media.ProxyPath)
	}
	if assert.NotNil(t, media.Metadata.Width) && assert.NotNil(t, media.Metadata.DurationMs) {
		assert.Equal(t, 1920, *media.Metadata.Width)
		assert.Equal(t, int64(10000), *media.Metadata.DurationMs)
	}
}

func TestMedia_CorruptImportReportsError(t *testing.T) {
	srv := startServer(t)
	id := srv.importMedia(t, "/media/corrupt.mkv")

	media := srv.awaitPhase(t, id, "error")
	assert.Nil(t, media.ProxyPath)
	if assert.NotNil(t, media.Status.Reason) {
		assert.Contains(t, *media.Status.Reason, "metadata probe failed")
	}
}

func TestMedia_ImportRequiresPath(t *testing.T) {
	srv := startServer(t)

	resp, _ := srv.do(t, http.MethodPost, "/api/reel/v1/media/", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = srv.do(t, http.MethodPost, "/api/reel/v1/media/", `{"path": `)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	assert.Empty(t, srv.registry.List())
}

func TestMedia_GetUnknownAndInvalid(t *testing.T) {
	srv := startServer(t)

	resp, _ := srv.do(t, http.MethodGet, "/api/reel/v1/media/"+uuid.NewString()+"/", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = srv.do(t, http.MethodGet, "/api/reel/v1/media/not-a-uuid/", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMedia_ListAndRemove(t *testing.T) {
	srv := startServer(t)
	first := srv.importMedia(t, "/media/one.mkv")
	second := srv.importMedia(t, "/media/two.mkv")
	readyFirst := srv.awaitPhase(t, first, "ready")
	srv.awaitPhase(t, second, "ready")

	resp, body := srv.do(t, http.MethodGet, "/api/reel/v1/media/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed []mediaResponse
	require.Nil(t, json.Unmarshal(body, &listed))
	ids := make([]uuid.UUID, 0, len(listed))
	for _, m := range listed {
		ids = append(ids, m.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{first, second}, ids)

	resp, _ = srv.do(t, http.MethodDelete, "/api/reel/v1/media/"+first.String()+"/", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NoFileExists(t, *readyFirst.ProxyPath)

	// Removal is idempotent
	resp, _ = srv.do(t, http.MethodDelete, "/api/reel/v1/media/"+first.String()+"/", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = srv.do(t, http.MethodGet, "/api/reel/v1/media/"+first.String()+"/", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMedia_RemoveReportsUndeletableProxy(t *testing.T) {
	srv := startServer(t)
	id := srv.importMedia(t, "/media/stuck.mkv")
	ready := srv.awaitPhase(t, id, "ready")

	// Replacing the proxy with a non-empty directory makes it undeletable
	require.Nil(t, os.Remove(*ready.ProxyPath))
	require.Nil(t, os.MkdirAll(filepath.Join(*ready.ProxyPath, "nested"), os.ModePerm))

	resp, body := srv.do(t, http.MethodDelete, "/api/reel/v1/media/"+id.String()+"/", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(body), "could not be deleted")

	// The media is gone regardless
	resp, _ = srv.do(t, http.MethodGet, "/api/reel/v1/media/"+id.String()+"/", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProxySettings_GetAndUpdate(t *testing.T) {
	srv := startServer(t)

	resp, body := srv.do(t, http.MethodGet, "/api/reel/v1/proxy-settings/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var current settingsResponse
	require.Nil(t, json.Unmarshal(body, &current))
	assert.Equal(t, settingsResponse{Resolution: "half", Codec: "h264", Quality: 23}, current)

	resp, body = srv.do(t, http.MethodPut, "/api/reel/v1/proxy-settings/", `{"resolution":"custom","width":640,"height":360,"codec":"h264","quality":28}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = srv.do(t, http.MethodGet, "/api/reel/v1/proxy-settings/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Nil(t, json.Unmarshal(body, &current))
	assert.Equal(t, "custom", current.Resolution)
	assert.Equal(t, uint32(28), current.Quality)
	if assert.NotNil(t, current.Width) && assert.NotNil(t, current.Height) {
		assert.Equal(t, 640, *current.Width)
		assert.Equal(t, 360, *current.Height)
	}

	id := srv.importMedia(t, "/media/custom.mkv")
	media := srv.awaitPhase(t, id, "ready")
	content, err := os.ReadFile(*media.ProxyPath)
	require.Nil(t, err)
	assert.Equal(t, "scale=640:360", strings.TrimSpace(string(content)))
}

func TestProxySettings_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		summary string
		body    string
	}{
		{summary: "unknown resolution", body: `{"resolution":"bogus","codec":"h264","quality":23}`},
		{summary: "custom without dimensions", body: `{"resolution":"custom","codec":"h264","quality":23}`},
		{summary: "custom with odd dimensions", body: `{"resolution":"custom","width":641,"height":361,"codec":"h264","quality":23}`},
		{summary: "missing codec", body: `{"resolution":"half","quality":23}`},
		{summary: "missing quality", body: `{"resolution":"half","codec":"h264"}`},
		{summary: "quality out of range", body: `{"resolution":"half","codec":"h264","quality":99}`},
		{summary: "malformed body", body: `{"resolution":`},
	}

	srv := startServer(t)
	for _, test := range tests {
		t.Run(test.summary, func(t *testing.T) {
			resp, _ := srv.do(t, http.MethodPut, "/api/reel/v1/proxy-settings/", test.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			settings := srv.registry.ProxySettings()
			assert.Equal(t, "half", string(settings.Resolution.Kind))
			assert.Equal(t, "h264", settings.Codec)
			assert.Equal(t, uint32(23), settings.Quality)
		})
	}
}

func TestActivity_PushesMediaUpdates(t *testing.T) {
	srv := startServer(t)
	id := srv.importMedia(t, "/media/pushed.mkv")
	srv.awaitPhase(t, id, "ready")

	url := "ws" + strings.TrimPrefix(srv.url, "http") + "/api/reel/v1/activity/ws/"
	var conn *gorilla.Conn
	require.Eventually(t, func() bool {
		c, _, err := gorilla.DefaultDialer.Dial(url, nil)
		if err != nil {
			return false
		}
		conn = c
		return true
	}, waitTimeout, waitInterval)
	defer conn.Close()

	type message struct {
		Title     string                 `json:"title"`
		Arguments map[string]interface{} `json:"arguments"`
	}
	read := func() message {
		require.Nil(t, conn.SetReadDeadline(time.Now().Add(waitTimeout)))
		var msg message
		require.Nil(t, conn.ReadJSON(&msg))
		return msg
	}

	welcome := read()
	assert.Equal(t, "CONNECTION_ESTABLISHED", welcome.Title)
	assert.Len(t, welcome.Arguments["media"], 1)
	assert.Contains(t, welcome.Arguments, "proxy_settings")

	require.Nil(t, srv.BroadcastMediaUpdate(id))
	update := read()
	assert.Equal(t, api.TITLE_MEDIA_UPDATE, update.Title)
	if args, ok := update.Arguments["arguments"].(map[string]interface{}); assert.True(t, ok) {
		assert.Equal(t, id.String(), args["media_id"])
	}

	require.Nil(t, srv.BroadcastMediaRemove(id))
	removal := read()
	assert.Equal(t, api.TITLE_MEDIA_REMOVE, removal.Title)
}
