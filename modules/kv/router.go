package kv

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/kvstore/pkg/httpserver"
	"github.com/dmitrymomot/kvstore/pkg/logger"
	"github.com/dmitrymomot/kvstore/pkg/requestid"
)

// Router mounts the key-value HTTP surface:
//
//	GET    /kv/{key}  -> 200 value | 404 | 500
//	PUT    /kv/{key}  -> 200 "OK"  | 500
//	DELETE /kv/{key}  -> 200 "OK"  | 500
//	GET    /healthz   -> 200 READY | 500 NOT_READY
//
// Keys are single path segments; clients must percent-encode anything
// else. Bodies are text/plain throughout.
func Router(svc *Service, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestid.Middleware)

	r.Route("/kv/{key}", func(r chi.Router) {
		r.Get("/", handleGet(svc, log))
		r.Put("/", handlePut(svc, log))
		r.Delete("/", handleDelete(svc, log))
	})

	r.Get("/healthz", httpserver.HealthCheckHandler(log, svc.Ping))

	return r
}

func handleGet(svc *Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")

		value, err := svc.Get(r.Context(), key)
		switch {
		case errors.Is(err, ErrNotFound):
			respondText(w, http.StatusNotFound, "Not Found")
		case err != nil:
			log.ErrorContext(r.Context(), "get failed", logger.Key(key), logger.Error(err))
			respondText(w, http.StatusInternalServerError, "Database error: "+err.Error())
		default:
			respondText(w, http.StatusOK, value)
		}
	}
}

func handlePut(svc *Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")

		value, err := io.ReadAll(r.Body)
		if err != nil {
			respondText(w, http.StatusBadRequest, "Bad Request")
			return
		}

		if err := svc.Put(r.Context(), key, string(value)); err != nil {
			log.ErrorContext(r.Context(), "put failed", logger.Key(key), logger.Error(err))
			respondText(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
		respondText(w, http.StatusOK, "OK")
	}
}

func handleDelete(svc *Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")

		if err := svc.Delete(r.Context(), key); err != nil {
			log.ErrorContext(r.Context(), "delete failed", logger.Key(key), logger.Error(err))
			respondText(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
		respondText(w, http.StatusOK, "OK")
	}
}

func respondText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
