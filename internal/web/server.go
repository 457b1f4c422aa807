// Package web serves the receiver's status API, a websocket fix stream and
// Prometheus metrics.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"paracletus/internal/gps"
)

// Deps are the collaborators behind the HTTP API. Nil members disable the
// routes that need them.
type Deps struct {
	Status   *Status
	GPS      func() gps.Snapshot
	Hub      *Hub
	Logs     *LogBuffer
	Gatherer prometheus.Gatherer
}

func Handler(d Deps) http.Handler {
	status := d.Status
	if status == nil {
		status = NewStatus()
	}
	gpsSnap := d.GPS
	if gpsSnap == nil {
		gpsSnap = func() gps.Snapshot { return gps.Snapshot{} }
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		if !allowGet(w, r) {
			return
		}
		writeJSON(w, status.Snapshot(time.Now().UTC(), gpsSnap(), d.Hub.Subscribers()))
	})

	mux.HandleFunc("/api/fix", func(w http.ResponseWriter, r *http.Request) {
		if !allowGet(w, r) {
			return
		}
		snap := gpsSnap()
		if snap.Fix == nil {
			http.Error(w, "no fix yet", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, snap.Fix)
	})

	if d.Hub != nil {
		mux.Handle("/ws", d.Hub)
	}
	if d.Logs != nil {
		mux.Handle("/api/logs", d.Logs.Handler())
	}
	if d.Gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}
	mux.Handle("/api/about", AboutHandler())

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if !allowGet(w, r) {
			return
		}
		snap := status.Snapshot(time.Now().UTC(), gpsSnap(), d.Hub.Subscribers())
		ts := "no fix yet"
		if snap.GPS.Fix != nil {
			ts = snap.GPS.Fix.Timestamp
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprintf(w, "<!doctype html><html><head><meta charset=\"utf-8\"><title>Paracletus</title></head><body>")
		_, _ = fmt.Fprintf(w, "<h1>Paracletus</h1>")
		_, _ = fmt.Fprintf(w, "<p>See <a href=\"/api/status\">/api/status</a>, <a href=\"/api/fix\">/api/fix</a> and <a href=\"/metrics\">/metrics</a>.</p>")
		_, _ = fmt.Fprintf(w, "<pre>source=%s\nvalid=%t\nfix=%s\nreads=%d\nbytes=%s\nlast_error=%s</pre>",
			html.EscapeString(snap.GPS.Source), snap.GPS.Valid, html.EscapeString(ts),
			snap.GPS.Reads, snap.BytesRead, html.EscapeString(snap.GPS.LastError),
		)
		_, _ = fmt.Fprintf(w, "</body></html>")
	})

	return mux
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, "marshal failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(b)
	_, _ = w.Write([]byte("\n"))
}

func Serve(ctx context.Context, listenAddr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       30 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MiB
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
