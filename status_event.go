package ffbridge

import "strconv"

// EventType tags a [StatusEvent].
type EventType uint8

const (
	// EvaluationReload carries the full, ordered list of evaluations.
	EvaluationReload EventType = iota + 1
	// EvaluationChange carries a single changed evaluation.
	EvaluationChange
	// StreamStart signals that the client's event stream opened.
	StreamStart
	// StreamEnd signals that the client's event stream closed.
	StreamEnd
)

// String returns the name of the event type.
func (t EventType) String() string {
	switch t {
	case EvaluationReload:
		return "EVALUATION_RELOAD"
	case EvaluationChange:
		return "EVALUATION_CHANGE"
	case StreamStart:
		return "STREAM_START"
	case StreamEnd:
		return "STREAM_END"
	}
	return "EVENT_TYPE(" + strconv.Itoa(int(t)) + ")"
}

// StatusEvent is a push notification from an evaluation client. The zero
// value has no type and is rejected by the bridge.
type StatusEvent struct {
	typ         EventType
	evaluations []Evaluation
}

// NewReloadEvent returns an [EvaluationReload] event. The slice is copied.
func NewReloadEvent(evaluations []Evaluation) StatusEvent {
	evals := make([]Evaluation, len(evaluations))
	copy(evals, evaluations)
	return StatusEvent{typ: EvaluationReload, evaluations: evals}
}

// NewChangeEvent returns an [EvaluationChange] event.
func NewChangeEvent(evaluation Evaluation) StatusEvent {
	return StatusEvent{typ: EvaluationChange, evaluations: []Evaluation{evaluation}}
}

// NewStreamStartEvent returns a [StreamStart] event.
func NewStreamStartEvent() StatusEvent {
	return StatusEvent{typ: StreamStart}
}

// NewStreamEndEvent returns a [StreamEnd] event.
func NewStreamEndEvent() StatusEvent {
	return StatusEvent{typ: StreamEnd}
}

// Type returns the tag of the event.
func (e StatusEvent) Type() EventType {
	return e.typ
}

// Evaluations returns a copy of the payload of an [EvaluationReload] event,
// or nil for other types.
func (e StatusEvent) Evaluations() []Evaluation {
	if e.typ != EvaluationReload {
		return nil
	}
	evals := make([]Evaluation, len(e.evaluations))
	copy(evals, e.evaluations)
	return evals
}

// Evaluation returns the payload of an [EvaluationChange] event.
func (e StatusEvent) Evaluation() (Evaluation, bool) {
	if e.typ != EvaluationChange || len(e.evaluations) != 1 {
		return Evaluation{}, false
	}
	return e.evaluations[0], true
}
