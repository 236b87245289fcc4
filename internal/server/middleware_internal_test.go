package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/UnknownOlympus/ems/internal/lib/logger/sl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoveryMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("panic before writing", func(t *testing.T) {
		t.Parallel()

		handler := recoveryMiddleware(sl.NewDiscardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/employees", nil))

		require.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), `"status":500`)
	})

	t.Run("panic after writing keeps the committed response", func(t *testing.T) {
		t.Parallel()

		handler := recoveryMiddleware(sl.NewDiscardLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":1}`))
			panic("boom")
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/employees", nil))

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, `{"id":1}`, rr.Body.String())
	})
}
