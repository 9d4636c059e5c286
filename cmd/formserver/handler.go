package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	aguievents "github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/johnsonav1992/formularity"
	"github.com/johnsonav1992/formularity/agui"
	"github.com/johnsonav1992/formularity/event"
	"github.com/johnsonav1992/formularity/form"
	"github.com/johnsonav1992/formularity/internal/config"
	"github.com/johnsonav1992/formularity/metrics"
	"github.com/johnsonav1992/formularity/schema"
)

// FormHandler serves one form over HTTP.
type FormHandler struct {
	ctrl    *form.Controller
	schema  *schema.ObjectBuilder
	config  *config.Config
	log     *slog.Logger
	mapper  *agui.Mapper
	metrics *metrics.Collector

	mu      sync.Mutex
	streams map[chan aguievents.Event]struct{}
	done    chan struct{}
}

// NewFormHandler creates a handler for f. Lifecycle events read from
// events are recorded in m, when set, then mapped to AG-UI and broadcast to
// every open stream.
func NewFormHandler(f *config.Form, events <-chan event.Event, m *metrics.Collector, cfg *config.Config, log *slog.Logger) *FormHandler {
	h := &FormHandler{
		ctrl:    f.Controller,
		schema:  f.Schema,
		config:  cfg,
		log:     log,
		mapper:  agui.NewMapper(f.Controller.ID(), ""),
		metrics: m,
		streams: make(map[chan aguievents.Event]struct{}),
		done:    make(chan struct{}),
	}
	go h.broadcast(events)
	return h
}

// Close stops the broadcaster.
func (h *FormHandler) Close() {
	close(h.done)
}

// Register adds the form routes to mux.
func (h *FormHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/form", h.getState)
	mux.HandleFunc("GET /api/form/schema", h.getSchema)
	mux.HandleFunc("GET /api/form/events", h.streamEvents)
	mux.HandleFunc("POST /api/form/change", h.change)
	mux.HandleFunc("POST /api/form/blur", h.blur)
	mux.HandleFunc("POST /api/form/submit", h.submit)
	mux.HandleFunc("POST /api/form/reset", h.reset)
}

func (h *FormHandler) broadcast(events <-chan event.Event) {
	for {
		select {
		case <-h.done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if h.metrics != nil {
				h.metrics.Observe(ev)
			}
			mapped := h.mapper.MapEvent(ev)
			if mapped == nil {
				continue
			}
			h.mu.Lock()
			for s := range h.streams {
				select {
				case s <- mapped:
				default:
					h.log.Warn("dropping event for slow stream", "event_type", mapped.Type())
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *FormHandler) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.View().Document())
}

// getSchema serves the form's JSON Schema so a frontend can render labels
// and constraints.
func (h *FormHandler) getSchema(w http.ResponseWriter, r *http.Request) {
	if h.schema == nil {
		http.Error(w, "form has no schema", http.StatusNotFound)
		return
	}
	raw, err := h.schema.Build()
	if err != nil {
		h.log.Error("invalid form schema", "error", err)
		http.Error(w, "invalid form schema", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

// streamEvents sends a snapshot, then deltas and lifecycle events until the
// client disconnects.
func (h *FormHandler) streamEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := h.log.With("remote", r.RemoteAddr)

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("streaming not supported")
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	out := make(chan aguievents.Event, 64)
	stop := agui.Bridge(h.ctrl, out)
	h.mu.Lock()
	h.streams[out] = struct{}{}
	h.mu.Unlock()

	defer func() {
		stop()
		h.mu.Lock()
		delete(h.streams, out)
		h.mu.Unlock()
	}()

	log.Info("stream opened")

	var eventCount int
	for {
		select {
		case <-r.Context().Done():
			log.Info("stream closed",
				"duration_ms", time.Since(start).Milliseconds(),
				"events_sent", eventCount,
			)
			return
		case ev := <-out:
			eventCount++
			log.Debug("sending SSE event", "event_type", ev.Type(), "event_num", eventCount)
			if err := writeSSE(w, flusher, ev); err != nil {
				log.Error("failed to write SSE event", "error", err, "event_type", ev.Type())
				return
			}
		}
	}
}

type fieldRequest struct {
	Path    string `json:"path"`
	Value   any    `json:"value"`
	Checked bool   `json:"checked"`
	Kind    string `json:"kind"`
}

func (h *FormHandler) decodeField(w http.ResponseWriter, r *http.Request) (form.Target, bool) {
	var req fieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("invalid request body", "error", err)
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return form.Target{}, false
	}
	if req.Path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return form.Target{}, false
	}
	var kind form.FieldKind
	if req.Kind != "" {
		k, err := form.ParseKind(req.Kind)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return form.Target{}, false
		}
		kind = k
	}
	return form.Target{Name: req.Path, Value: req.Value, Checked: req.Checked, Kind: kind}, true
}

func (h *FormHandler) change(w http.ResponseWriter, r *http.Request) {
	target, ok := h.decodeField(w, r)
	if !ok {
		return
	}
	h.ctrl.HandleChange(form.ChangeEvent{Target: target})
	writeJSON(w, http.StatusOK, h.ctrl.View().Document())
}

func (h *FormHandler) blur(w http.ResponseWriter, r *http.Request) {
	target, ok := h.decodeField(w, r)
	if !ok {
		return
	}
	h.ctrl.HandleBlur(form.BlurEvent{Target: target})
	writeJSON(w, http.StatusOK, h.ctrl.View().Document())
}

func (h *FormHandler) submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.config.SubmitTimeout)
	defer cancel()

	err := h.ctrl.HandleSubmit(ctx, nil, func(_ context.Context, values formularity.Values) error {
		h.log.Info("form submitted", "fields", len(values))
		return nil
	})
	if errors.Is(err, formularity.ErrSubmitInFlight) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, h.ctrl.View().Document())
}

func (h *FormHandler) reset(w http.ResponseWriter, r *http.Request) {
	h.ctrl.HandleReset(nil)
	writeJSON(w, http.StatusOK, h.ctrl.View().Document())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeSSE writes an AG-UI event in SSE format.
func writeSSE(w http.ResponseWriter, flusher http.Flusher, ev aguievents.Event) error {
	data, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	// Write SSE format: event: TYPE\ndata: {json}\n\n
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type(), string(data)); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	flusher.Flush()
	return nil
}

// corsMiddleware adds CORS headers for cross-origin frontend requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// healthHandler returns a simple health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
