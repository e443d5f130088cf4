package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus-chat/internal/app"
	"nexus-chat/internal/config"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRouterRecoversPanics(t *testing.T) {
	r := NewRouter(discard(), 0)
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	deps := app.Deps{Log: discard(), Config: config.Config{LLMProvider: "gemini", CacheProvider: "redis", EventsProvider: "none"}}
	HealthHandler(deps)(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","llm":"gemini","cache":"redis","events":"none"}`, w.Body.String())
}

func TestFail(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   int
	}{
		{"client error", http.StatusBadRequest, http.StatusBadRequest},
		{"zero means internal error", 0, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			Fail(discard(), w, "nope", errors.New("cause"), tt.status)

			assert.Equal(t, tt.want, w.Code)
			assert.JSONEq(t, `{"error":"nope"}`, w.Body.String())
		})
	}
}

func TestValidationError(t *testing.T) {
	type req struct {
		Text string `validate:"required,max=3"`
	}
	err := Validator.Struct(req{Text: "toolong"})
	require.Error(t, err)

	w := httptest.NewRecorder()
	ValidationError(discard(), w, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "validation failed", body["error"])
	assert.Equal(t, []any{"Text failed max"}, body["fields"])

	w = httptest.NewRecorder()
	ValidationError(discard(), w, errors.New("other"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusCreated, map[string]string{"a": "b"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"a":"b"}`, w.Body.String())
}
