package negotiation

import "fmt"

// ProgressStatus is the state of one stakeholder's analysis within a round.
type ProgressStatus string

const (
	ProgressPending  ProgressStatus = "pending"
	ProgressWorking  ProgressStatus = "working"
	ProgressComplete ProgressStatus = "complete"
	ProgressFallback ProgressStatus = "fallback"
)

// ProgressEvent is emitted to the caller while a negotiation runs.
type ProgressEvent struct {
	Round       int
	Stakeholder StakeholderKind
	Status      ProgressStatus
	Message     string
}

// Reporter emits progress events through a buffered channel.
type Reporter struct {
	ch chan ProgressEvent
}

// NewReporter creates a Reporter with a buffered channel of size 64.
func NewReporter() *Reporter {
	return &Reporter{
		ch: make(chan ProgressEvent, 64),
	}
}

// Emit sends a progress event in a non-blocking fashion.
// If the channel is full, the event is silently dropped.
func (r *Reporter) Emit(event ProgressEvent) {
	select {
	case r.ch <- event:
	default:
		// Drop the event if the channel is full.
	}
}

// Subscribe returns a read-only channel for consuming progress events.
func (r *Reporter) Subscribe() <-chan ProgressEvent {
	return r.ch
}

// Close closes the progress event channel.
func (r *Reporter) Close() {
	close(r.ch)
}

// FormatProgress formats a ProgressEvent as a human-readable status line.
func FormatProgress(event ProgressEvent) string {
	switch event.Status {
	case ProgressPending:
		return fmt.Sprintf("  ○ %s (pending)", event.Stakeholder)
	case ProgressWorking:
		return fmt.Sprintf("  ● %s...", event.Stakeholder)
	case ProgressComplete:
		return fmt.Sprintf("  ✓ %s %s", event.Stakeholder, event.Message)
	case ProgressFallback:
		return fmt.Sprintf("  ✗ %s substituted: %s", event.Stakeholder, event.Message)
	default:
		return fmt.Sprintf("  ? %s (unknown status)", event.Stakeholder)
	}
}

// FormatRoundHeader formats a round banner for display.
func FormatRoundHeader(session string, round, maxRounds int) string {
	return fmt.Sprintf("[%s] round %d/%d", session, round, maxRounds)
}
