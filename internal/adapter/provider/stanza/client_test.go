package stanza

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itzulbide/alignd/internal/config"
	"github.com/itzulbide/alignd/internal/domain"
)

func newTestClient(baseURL string) *Client {
	return New(config.StanzaConfig{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_Analyze_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analyze", r.URL.Path)

		var req analyzeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "eu", req.Lang)
		assert.Equal(t, "Kaixo mundua", req.Text)

		w.Write([]byte(`{"tokens":[
			{"form":"Kaixo","lemma":"kaixo","upos":"INTJ","feats":""},
			{"form":"mundua","lemma":"mundu","upos":"NOUN","feats":"Case=Abs|Definite=Def|Number=Sing"}
		]}`))
	}))
	defer srv.Close()

	rows, err := newTestClient(srv.URL).Analyze(context.Background(), "eu", "Kaixo mundua")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.AnalysisRow{Form: "Kaixo", Lemma: "kaixo", UPOS: "INTJ", Feats: ""}, rows[0])
	assert.Equal(t, "Case=Abs|Definite=Def|Number=Sing", rows[1].Feats)
}

func TestClient_Analyze_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Analyze(context.Background(), "eu", "Kaixo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestClient_Preload(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/preload", r.URL.Path)

		var req preloadRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"eu", "en"}, req.Languages)

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, newTestClient(srv.URL).Preload(context.Background(), []string{"eu", "en"}))
}

func TestClient_Preload_Failure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).Preload(context.Background(), []string{"eu"})
	require.Error(t, err)
}
