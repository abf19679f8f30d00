package gamma

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckpilot/deckpilot/constants"
	"github.com/deckpilot/deckpilot/internal/common"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
	return c, srv
}

func TestSubmit_SendsDocumentedPayload(t *testing.T) {
	var got map[string]any
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/generations", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"generationId":"gen-42"}`))
	})

	id, err := c.Submit(context.Background(), "deck content", Options{}, false)
	require.NoError(t, err)
	assert.Equal(t, "gen-42", id)

	assert.Equal(t, "deck content", got["inputText"])
	assert.Equal(t, "generate", got["textMode"])
	assert.Equal(t, "presentation", got["format"])
	assert.Equal(t, "auto", got["cardSplit"])
	assert.Equal(t, "pdf", got["exportAs"])

	textOpts := got["textOptions"].(map[string]any)
	assert.Equal(t, "detailed", textOpts["amount"])
	assert.Equal(t, "professional", textOpts["tone"])
	assert.Equal(t, "general", textOpts["audience"])
	assert.Equal(t, "en", textOpts["language"])

	imageOpts := got["imageOptions"].(map[string]any)
	assert.Equal(t, "aiGenerated", imageOpts["source"])
	assert.Equal(t, "imagen-4-pro", imageOpts["model"])
	assert.Equal(t, "photorealistic", imageOpts["style"])

	cardOpts := got["cardOptions"].(map[string]any)
	assert.Equal(t, "fluid", cardOpts["dimensions"])
}

func TestSubmit_ProvidedImagesDisableGeneratedOnes(t *testing.T) {
	var got map[string]any
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"generationId":"gen-1"}`))
	})

	_, err := c.Submit(context.Background(), "text with images", Options{}, true)
	require.NoError(t, err)

	imageOpts := got["imageOptions"].(map[string]any)
	assert.Equal(t, "noImages", imageOpts["source"])
	assert.NotContains(t, imageOpts, "model")
	assert.NotContains(t, imageOpts, "style")
}

func TestSubmit_TruncatesOverBudgetInput(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"generationId":"gen-1"}`))
	}))
	t.Cleanup(srv.Close)
	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL, MaxInputChars: 100000}, nil)

	id, err := c.Submit(context.Background(), strings.Repeat("x", 150000), Options{}, false)
	require.NoError(t, err, "over-budget input is truncated, not rejected")
	assert.Equal(t, "gen-1", id)
	assert.Len(t, got["inputText"].(string), 100000)
}

func TestSubmit_NonSuccessIsRemoteRejected(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid api key"}`))
	})

	_, err := c.Submit(context.Background(), "text", Options{}, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrRemoteRejected))
	assert.False(t, errors.Is(err, common.ErrRemoteUnavailable))
}

func TestSubmit_MissingGenerationIDIsRejected(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := c.Submit(context.Background(), "text", Options{}, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrRemoteRejected))
}

func TestSubmit_TransportErrorIsRemoteUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections
	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)

	_, err := c.Submit(context.Background(), "text", Options{}, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrRemoteUnavailable))
}

func TestCheckStatus_MapsRemoteVocabulary(t *testing.T) {
	tests := []struct {
		remote string
		want   constants.GenerationStatus
	}{
		{"pending", constants.StatusPending},
		{"processing", constants.StatusGenerating},
		{"completed", constants.StatusCompleted},
		{"failed", constants.StatusFailed},
		{"something-new", constants.StatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/generations/gen-7", r.URL.Path)
				_, _ = w.Write([]byte(`{"status":"` + tt.remote + `","gammaUrl":"https://gamma.app/docs/abc"}`))
			})

			res, err := c.CheckStatus(context.Background(), "gen-7")
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Status)
			assert.Equal(t, "https://gamma.app/docs/abc", res.RemoteURL)
		})
	}
}

func TestCheckStatus_ServerErrorsAreTransient(t *testing.T) {
	for _, code := range []int{http.StatusInternalServerError, http.StatusBadGateway, http.StatusTooManyRequests} {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		})
		_, err := c.CheckStatus(context.Background(), "gen-7")
		require.Error(t, err)
		assert.True(t, errors.Is(err, common.ErrRemoteUnavailable), "status %d should be transient", code)
	}
}

func TestCheckStatus_ClientErrorIsPermanent(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	_, err := c.CheckStatus(context.Background(), "gen-7")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrRemoteRejected))
}
