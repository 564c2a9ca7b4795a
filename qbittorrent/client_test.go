package qbittorrent

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockWebAPI struct {
	username string
	password string

	addCalled bool
	addFields map[string]string
	addFiles  int
}

func newMockWebAPI(t *testing.T) (*mockWebAPI, *httptest.Server) {
	t.Helper()

	m := &mockWebAPI{
		username:  "admin",
		password:  "adminadmin",
		addFields: make(map[string]string),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/auth/login", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.FormValue("username") != m.username || r.FormValue("password") != m.password {
			http.Error(w, "Fails.", http.StatusForbidden)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "SID", Value: "mock-session"})
		w.Write([]byte("Ok."))
	})
	mux.HandleFunc("/api/v2/app/version", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("v4.6.3"))
	})
	mux.HandleFunc("/api/v2/app/webapiVersion", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("2.9.3"))
	})
	mux.HandleFunc("/api/v2/torrents/add", func(w http.ResponseWriter, r *http.Request) {
		m.addCalled = true
		require.NoError(t, r.ParseMultipartForm(10<<20))
		for key, vals := range r.MultipartForm.Value {
			if len(vals) > 0 {
				m.addFields[key] = vals[0]
			}
		}
		m.addFiles = len(r.MultipartForm.File["torrents"])
		w.Write([]byte("Ok."))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return m, server
}

func TestNewClientAuthFailure(t *testing.T) {
	mock, server := newMockWebAPI(t)

	client, err := NewClient(server.URL, "admin", "wrong-password", zerolog.Nop())
	require.Error(t, err)
	assert.Nil(t, client)
	assert.True(t, errors.Is(err, ErrConnectionFailed))

	// A rejected login must never reach the add endpoint.
	assert.False(t, mock.addCalled)
}

func TestAddTorrent(t *testing.T) {
	mock, server := newMockWebAPI(t)

	client, err := NewClient(server.URL, "admin", "adminadmin", zerolog.Nop())
	require.NoError(t, err)

	torrentPath := filepath.Join(t.TempDir(), "enwiki-20240101-pages-articles-multistream.xml.bz2.torrent")
	require.NoError(t, os.WriteFile(torrentPath, []byte("d8:announce0:e"), 0o644))

	// Save directory does not exist yet; AddTorrent must create it with parents.
	saveDir := filepath.Join(t.TempDir(), "wiki", "enwiki")

	err = client.AddTorrent(t.Context(), torrentPath, saveDir, "wikipedia")
	require.NoError(t, err)

	info, err := os.Stat(saveDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.True(t, mock.addCalled)
	assert.Equal(t, saveDir, mock.addFields["savepath"])
	assert.Equal(t, "wikipedia", mock.addFields["category"])
	assert.Equal(t, "false", mock.addFields["autoTMM"])
	assert.Equal(t, "false", mock.addFields["paused"])
	assert.Equal(t, 1, mock.addFiles)
}

func TestAddTorrentMissingFile(t *testing.T) {
	mock, server := newMockWebAPI(t)

	client, err := NewClient(server.URL, "admin", "adminadmin", zerolog.Nop())
	require.NoError(t, err)

	err = client.AddTorrent(t.Context(), filepath.Join(t.TempDir(), "missing.torrent"), t.TempDir(), "wikipedia")
	require.Error(t, err)
	assert.False(t, mock.addCalled)
}
