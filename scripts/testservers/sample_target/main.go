// Command sample_target is a throwaway HTTP server to point loadburst at.
// It offers fast, slow, flaky, and missing endpoints plus an optional
// per-client request rate limit that answers 429 when exceeded.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

func main() {
	port := flag.Int("port", 8080, "Listening port")
	limit := flag.Float64("limit", 0, "Per-client requests per second (0 disables throttling)")
	burst := flag.Int("burst", 10, "Per-client burst allowance when throttling")
	flag.Parse()

	mux := http.NewServeMux()
	mux.HandleFunc("/fast", handleFast)
	mux.HandleFunc("/slow", handleSlow)
	mux.HandleFunc("/flaky", handleFlaky)
	mux.HandleFunc("/missing", handleMissing)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{"ok": true, "path": r.URL.Path})
	})

	handler := http.Handler(mux)
	if *limit > 0 {
		handler = throttle(handler, rate.Limit(*limit), *burst)
	}

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("sample target listening on %s (limit=%.1f/s burst=%d)", addr, *limit, *burst)
	log.Fatal(http.ListenAndServe(addr, handler))
}

// throttle enforces a per-client-IP token bucket in front of next.
func throttle(next http.Handler, limit rate.Limit, burst int) http.Handler {
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	limiterFor := func(addr string) *rate.Limiter {
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			host = addr
		}
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[host]
		if !ok {
			l = rate.NewLimiter(limit, burst)
			limiters[host] = l
		}
		return l
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiterFor(r.RemoteAddr).Allow() {
			respondJSON(w, http.StatusTooManyRequests, map[string]any{"error": "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func handleFast(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok", "ts": time.Now().UnixMilli()})
}

func handleSlow(w http.ResponseWriter, r *http.Request) {
	delay := 250 * time.Millisecond
	if raw := r.URL.Query().Get("ms"); raw != "" {
		if parsed, err := time.ParseDuration(raw + "ms"); err == nil {
			delay = parsed
		}
	}
	time.Sleep(delay)
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok", "delayed_ms": delay.Milliseconds()})
}

func handleFlaky(w http.ResponseWriter, r *http.Request) {
	if rand.Intn(100) < 30 {
		respondJSON(w, http.StatusInternalServerError, map[string]any{"error": "synthetic failure"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func handleMissing(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusNotFound, map[string]any{"error": "not found"})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
