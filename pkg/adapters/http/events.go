package http

import (
	"fmt"
	"log/slog"
	"net/http"
)

// SubscribeWorkspace handles GET /workspaces/{id}/events (SSE): one data frame per
// mutation, carrying the snapshot diff as JSON.
func (s *Server) SubscribeWorkspace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	if _, err := s.Workspaces.Get(id); err != nil {
		writeDomainError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		slog.Error("SubscribeWorkspace: Streaming not supported")
		return
	}

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	setStreamHeaders(w)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	slog.Info("SSE: Subscribing to Workspace Updates", "workspace_id", id)

	for {
		select {
		case <-r.Context().Done():
			slog.Info("SSE Client Disconnected", "workspace_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// SubscribeOutlines handles GET /events (SSE): the IDs of outlines changed on disk.
func (s *Server) SubscribeOutlines(w http.ResponseWriter, r *http.Request) {
	if s.Watcher == nil {
		http.Error(w, "Watching not supported", http.StatusNotImplemented)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	events, err := s.Watcher.Watch(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Watch error: %v", err), http.StatusInternalServerError)
		return
	}

	setStreamHeaders(w)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		}
	}
}

func setStreamHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}
