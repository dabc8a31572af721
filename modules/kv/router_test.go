package kv_test

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/kvstore/modules/kv"
	"github.com/dmitrymomot/kvstore/pkg/cache"
	"github.com/dmitrymomot/kvstore/pkg/requestid"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestRouter(t *testing.T) (http.Handler, *fakeConn) {
	t.Helper()
	conn := newFakeConn()
	pool := &fakePool{conn: conn}
	svc := kv.NewService(cache.New[string, string](16), pool, nil)
	return kv.Router(svc, testLogger()), conn
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Get(t *testing.T) {
	t.Run("found in store", func(t *testing.T) {
		h, conn := newTestRouter(t)
		conn.data["greeting"] = "hello"

		rec := doRequest(t, h, http.MethodGet, "/kv/greeting", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "hello", rec.Body.String())
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	})

	t.Run("not found", func(t *testing.T) {
		h, _ := newTestRouter(t)

		rec := doRequest(t, h, http.MethodGet, "/kv/absent", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Not Found", rec.Body.String())
	})

	t.Run("store error", func(t *testing.T) {
		h, conn := newTestRouter(t)
		conn.getErr = errors.Join(kv.ErrStore, errors.New("connection reset"))

		rec := doRequest(t, h, http.MethodGet, "/kv/any", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Body.String(), "Database error: "))
	})

	t.Run("response carries request id", func(t *testing.T) {
		h, _ := newTestRouter(t)

		rec := doRequest(t, h, http.MethodGet, "/kv/absent", "")

		assert.NotEmpty(t, rec.Header().Get(requestid.Header))
	})
}

func TestRouter_Put(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		h, conn := newTestRouter(t)

		rec := doRequest(t, h, http.MethodPut, "/kv/greeting", "hello")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
		assert.Equal(t, "hello", conn.data["greeting"])

		// The fresh write is now served without a store read.
		rec = doRequest(t, h, http.MethodGet, "/kv/greeting", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "hello", rec.Body.String())
		assert.Zero(t, conn.getCalls)
	})

	t.Run("store error", func(t *testing.T) {
		h, conn := newTestRouter(t)
		conn.setErr = errors.Join(kv.ErrStore, errors.New("disk full"))

		rec := doRequest(t, h, http.MethodPut, "/kv/greeting", "hello")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Body.String(), "Database error: "))

		// A rejected write must not be readable afterwards.
		conn.setErr = nil
		rec = doRequest(t, h, http.MethodGet, "/kv/greeting", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("empty body is a valid value", func(t *testing.T) {
		h, conn := newTestRouter(t)

		rec := doRequest(t, h, http.MethodPut, "/kv/empty", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		v, ok := conn.data["empty"]
		require.True(t, ok)
		assert.Empty(t, v)
	})
}

func TestRouter_Delete(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		h, conn := newTestRouter(t)
		conn.data["k"] = "v"

		rec := doRequest(t, h, http.MethodDelete, "/kv/k", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
		assert.NotContains(t, conn.data, "k")

		rec = doRequest(t, h, http.MethodGet, "/kv/k", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("absent key still ok", func(t *testing.T) {
		h, _ := newTestRouter(t)

		rec := doRequest(t, h, http.MethodDelete, "/kv/never", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("store error", func(t *testing.T) {
		h, conn := newTestRouter(t)
		conn.delErr = errors.Join(kv.ErrStore, errors.New("connection lost"))

		rec := doRequest(t, h, http.MethodDelete, "/kv/k", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestRouter_Healthz(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		h, _ := newTestRouter(t)

		rec := doRequest(t, h, http.MethodGet, "/healthz", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "READY", rec.Body.String())
	})

	t.Run("not ready", func(t *testing.T) {
		h, conn := newTestRouter(t)
		conn.pingErr = errors.New("db down")

		rec := doRequest(t, h, http.MethodGet, "/healthz", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "NOT_READY", rec.Body.String())
	})
}
