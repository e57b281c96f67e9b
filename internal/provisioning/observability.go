package provisioning

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Observer defines the interface for structured observability during provisioning.
type Observer interface {
	// Printf logs a free-form message.
	Printf(format string, v ...any)

	// Event emits a structured event
	Event(event Event)

	// Progress reports progress for a phase
	Progress(phase string, current, total int)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Phase     string            // Phase name (e.g., "machine", "kernel")
	Message   string            // Human-readable message
	Resource  string            // Resource name or natural key if applicable
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventPhaseStarted indicates a provisioning phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a provisioning phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a provisioning phase failed.
	EventPhaseFailed EventType = "phase.failed"
	// EventPhaseSkipped indicates a mutation phase was skipped in dry-run mode.
	EventPhaseSkipped EventType = "phase.skipped"

	// EventResourceResolved indicates a lookup found its record.
	EventResourceResolved EventType = "resource.resolved"
	// EventResourceCreating indicates a resource is being uploaded.
	EventResourceCreating EventType = "resource.creating"
	// EventResourceCreated indicates a resource was uploaded successfully.
	EventResourceCreated EventType = "resource.created"
	// EventResourceExists indicates a resource already exists.
	EventResourceExists EventType = "resource.exists"
	// EventResourceUpdated indicates a machine record was updated.
	EventResourceUpdated EventType = "resource.updated"

	// EventProgress indicates progress in a long-running operation.
	EventProgress EventType = "progress"
)

// ZerologObserver implements Observer on top of a zerolog logger.
type ZerologObserver struct {
	logger        zerolog.Logger
	contextFields map[string]string
}

// NewObserver creates an observer writing to logger.
func NewObserver(logger zerolog.Logger) *ZerologObserver {
	return &ZerologObserver{
		logger:        logger,
		contextFields: make(map[string]string),
	}
}

// NopObserver returns an observer that discards everything.
func NopObserver() Observer {
	return NewObserver(zerolog.Nop())
}

// Printf implements Observer.
func (o *ZerologObserver) Printf(format string, v ...any) {
	o.withContext(o.logger.Debug()).Msgf(format, v...)
}

// Event implements Observer. Failures log at error level, lifecycle
// events at info, everything else at debug.
func (o *ZerologObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	var e *zerolog.Event
	switch event.Type {
	case EventPhaseFailed:
		e = o.logger.Error()
	case EventResourceCreated, EventResourceExists, EventResourceUpdated, EventPhaseSkipped:
		e = o.logger.Info()
	default:
		e = o.logger.Debug()
	}

	e = o.withContext(e).
		Str("event", string(event.Type)).
		Time("at", event.Timestamp)
	if event.Phase != "" {
		e = e.Str("phase", event.Phase)
	}
	if event.Resource != "" {
		e = e.Str("resource", event.Resource)
	}
	for k, v := range event.Fields {
		e = e.Str(k, v)
	}
	e.Msg(event.Message)
}

// Progress implements Observer.
func (o *ZerologObserver) Progress(phase string, current, total int) {
	o.withContext(o.logger.Debug()).
		Str("event", string(EventProgress)).
		Str("phase", phase).
		Int("current", current).
		Int("total", total).
		Msg("progress")
}

// WithFields implements Observer.
func (o *ZerologObserver) WithFields(fields map[string]string) Observer {
	newFields := make(map[string]string, len(o.contextFields)+len(fields))
	for k, v := range o.contextFields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}

	return &ZerologObserver{
		logger:        o.logger,
		contextFields: newFields,
	}
}

func (o *ZerologObserver) withContext(e *zerolog.Event) *zerolog.Event {
	for k, v := range o.contextFields {
		e = e.Str(k, v)
	}
	return e
}

// Helper functions for common events

// LogPhaseStart logs a phase start event.
func LogPhaseStart(observer Observer, phase string) {
	observer.Event(Event{
		Type:    EventPhaseStarted,
		Phase:   phase,
		Message: "starting",
	})
}

// LogPhaseComplete logs a phase completion event.
func LogPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogPhaseFailed logs a phase failure event.
func LogPhaseFailed(observer Observer, phase string, err error) {
	observer.Event(Event{
		Type:    EventPhaseFailed,
		Phase:   phase,
		Message: fmt.Sprintf("failed: %v", err),
	})
}

// LogPhaseSkipped logs a mutation phase skipped in dry-run mode.
func LogPhaseSkipped(observer Observer, phase string) {
	observer.Event(Event{
		Type:    EventPhaseSkipped,
		Phase:   phase,
		Message: "skipped (dry run)",
	})
}

// LogResourceResolved logs a successful lookup.
func LogResourceResolved(observer Observer, phase, resourceType, key string, id int64) {
	observer.Event(Event{
		Type:     EventResourceResolved,
		Phase:    phase,
		Resource: key,
		Message:  fmt.Sprintf("%s resolved", resourceType),
		Fields: map[string]string{
			"type": resourceType,
			"id":   fmt.Sprint(id),
		},
	})
}

// LogResourceCreating logs a resource upload start event.
func LogResourceCreating(observer Observer, phase, resourceType, key string) {
	observer.Event(Event{
		Type:     EventResourceCreating,
		Phase:    phase,
		Resource: key,
		Message:  fmt.Sprintf("uploading %s", resourceType),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}

// LogResourceCreated logs a successful resource upload event.
func LogResourceCreated(observer Observer, phase, resourceType, key string, id int64) {
	observer.Event(Event{
		Type:     EventResourceCreated,
		Phase:    phase,
		Resource: key,
		Message:  fmt.Sprintf("%s created", resourceType),
		Fields: map[string]string{
			"type": resourceType,
			"id":   fmt.Sprint(id),
		},
	})
}

// LogResourceExists logs when a resource already exists.
func LogResourceExists(observer Observer, phase, resourceType, key string, id int64) {
	observer.Event(Event{
		Type:     EventResourceExists,
		Phase:    phase,
		Resource: key,
		Message:  fmt.Sprintf("%s already exists", resourceType),
		Fields: map[string]string{
			"type": resourceType,
			"id":   fmt.Sprint(id),
		},
	})
}
