package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"leaklens/server/store"
)

var routerLogger = log.With().Str("logger_name", "server::router").Logger()

// Router serves the read API: recent hands, replayer JSON and leak
// aggregates. Writes all go through the pipeline stages, never through HTTP.
func Router(db *store.DB) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLog)

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"ok": true})
	})

	// Recent hands for one user, newest first.
	r.Get("/api/hands", func(w http.ResponseWriter, r *http.Request) {
		userID, ok := queryInt64(r, "user_id")
		if !ok {
			http.Error(w, "missing or bad user_id", http.StatusBadRequest)
			return
		}
		limit := 50
		if v, ok := queryInt64(r, "limit"); ok && v > 0 && v <= 500 {
			limit = int(v)
		}
		hands, err := db.RecentHands(r.Context(), userID, limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if hands == nil {
			hands = []store.HandSummary{}
		}
		writeJSON(w, map[string]any{"rows": hands})
	})

	// Replayer JSON for one hand, exactly as the parser stored it.
	r.Get("/api/hands/{id}/replayer", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "bad hand id", http.StatusBadRequest)
			return
		}
		data, err := db.HandReplayer(r.Context(), id)
		if err != nil {
			if store.IsNotFound(err) {
				http.Error(w, "hand not parsed yet", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	})

	// Leak-tag aggregates with bootstrap CI on the per-hand bb results.
	r.Get("/api/leaks", func(w http.ResponseWriter, r *http.Request) {
		userID, ok := queryInt64(r, "user_id")
		if !ok {
			http.Error(w, "missing or bad user_id", http.StatusBadRequest)
			return
		}
		samples, err := db.LeakSamples(r.Context(), userID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		stats := LeakStatsFromSamples(samples, 2000)
		if stats == nil {
			stats = []LeakStat{}
		}
		writeJSON(w, map[string]any{"rows": stats})
	})

	return r
}

func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		routerLogger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func queryInt64(r *http.Request, key string) (int64, bool) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
