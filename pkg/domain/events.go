package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventToggle      EventType = "toggle"
	EventExpand      EventType = "expand"
	EventInitialize  EventType = "initialize"
	EventResolve     EventType = "resolve"
	EventStateChange EventType = "state_change"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// NodeEvent reports a single node whose state actually changed.
type NodeEvent struct {
	EventBase
	NodeID  string `json:"node_id"`
	Old     State  `json:"old"`
	New     State  `json:"new"`
	Checked bool   `json:"checked"`
}

// PropagationEvent summarizes one entry-point call.
type PropagationEvent struct {
	EventBase
	Trigger EventType `json:"trigger"`
	NodeID  string    `json:"node_id,omitempty"`
	// Touched counts every node written by the pass, changed or not.
	Touched  int           `json:"touched"`
	Duration time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnStateChange func(context.Context, *NodeEvent)
	OnPropagate   func(context.Context, *PropagationEvent)
}
