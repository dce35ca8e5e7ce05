// Package notify carries user-visible failure signals out of the core.
// Delivery is fire-and-forget; the core never depends on it succeeding.
package notify

import (
	"context"
	"log"
	"time"
)

type Kind string

const (
	KindLoadFailed Kind = "load_failed"
	KindSaveFailed Kind = "save_failed"
)

type Event struct {
	Kind    Kind      `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier receives user-visible failure signals.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

// LogNotifier writes signals to the process log.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, ev Event) {
	log.Printf("notify [%s]: %s", ev.Kind, ev.Message)
}
