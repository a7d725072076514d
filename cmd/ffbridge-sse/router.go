package main

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/open-feature/go-sdk-contrib/providers/ffbridge"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func newRouter(bridge *ffbridge.Bridge, events http.Handler, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// SSE stream of relayed status events
	r.Get("/events", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		if q.Get("stream") == "" {
			q.Set("stream", ffbridge.DefaultSSEStream)
			req.URL.RawQuery = q.Encode()
		}
		events.ServeHTTP(w, req)
	})

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Get("/flags/{kind}/{flag}", handleVariation(bridge))

	return r
}

// handleVariation evaluates a flag. The optional fallback query parameter is
// parsed according to the kind: bool, string, number or json.
func handleVariation(bridge *ffbridge.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flag := chi.URLParam(r, "flag")
		fallback, hasFallback := r.URL.Query()["fallback"]
		raw := ""
		if hasFallback && len(fallback) > 0 {
			raw = fallback[0]
		}

		switch chi.URLParam(r, "kind") {
		case "bool":
			if !hasFallback {
				writeJSON(w, http.StatusOK, bridge.BoolVariation(flag).Record())
				return
			}
			b, err := strconv.ParseBool(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "fallback must be a boolean")
				return
			}
			writeJSON(w, http.StatusOK, bridge.BoolVariationWithFallback(flag, b).Record())
		case "string":
			if !hasFallback {
				writeJSON(w, http.StatusOK, bridge.StringVariation(flag).Record())
				return
			}
			writeJSON(w, http.StatusOK, bridge.StringVariationWithFallback(flag, raw).Record())
		case "number":
			if !hasFallback {
				writeJSON(w, http.StatusOK, bridge.NumberVariation(flag).Record())
				return
			}
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "fallback must be a number")
				return
			}
			writeJSON(w, http.StatusOK, bridge.NumberVariationWithFallback(flag, n).Record())
		case "json":
			var doc map[string]any
			if hasFallback {
				if err := json.Unmarshal([]byte(raw), &doc); err != nil {
					writeError(w, http.StatusBadRequest, "fallback must be a JSON object")
					return
				}
			}
			result, err := bridge.JSONVariationWithFallback(flag, doc)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, ffbridge.Record{Flag: flag, Value: result.Value})
		default:
			writeError(w, http.StatusNotFound, "unknown variation kind")
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
