package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRespondJSON(t *testing.T) {
	t.Run("writes status and body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		respondJSON(rec, http.StatusCreated, map[string]int{"nonce": 3})

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"nonce": 3}`, rec.Body.String())
	})

	t.Run("unencodable payload is a 500", func(t *testing.T) {
		rec := httptest.NewRecorder()
		respondJSON(rec, http.StatusOK, map[string]any{"ch": make(chan int)})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"message": "internal error"}`, rec.Body.String())
	})

	t.Run("large bodies are written whole", func(t *testing.T) {
		rec := httptest.NewRecorder()
		big := strings.Repeat("x", 2*maxPooledBuffer)
		respondJSON(rec, http.StatusOK, map[string]string{"blob": big})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), big)
	})
}
