package http

import (
	"log/slog"
	"sync"
)

// StreamManager handles active SSE connections
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // WorkspaceID -> Set of Channels
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

func (sm *StreamManager) Subscribe(workspaceID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[workspaceID]; !ok {
		sm.subscribers[workspaceID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[workspaceID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[workspaceID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, workspaceID)
			}
		}
	}
}

func (sm *StreamManager) Broadcast(workspaceID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if subs, ok := sm.subscribers[workspaceID]; ok {
		slog.Debug("StreamManager: Broadcasting", "workspace_id", workspaceID, "subscribers", len(subs), "payload_size", len(msg))
		for ch := range subs {
			select {
			case ch <- msg:
			default:
				// Drop message if channel is full (slow client)
				slog.Warn("SSE: Client buffer full, dropping message", "workspace_id", workspaceID)
			}
		}
	}
}

// Subscribers returns the number of open streams for a workspace.
func (sm *StreamManager) Subscribers(workspaceID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[workspaceID])
}
