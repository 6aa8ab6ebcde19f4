package engine

type EventKind string

const (
	EventMoved     EventKind = "moved"
	EventCheck     EventKind = "check"
	EventCheckmate EventKind = "checkmate"
)

// Event describes something that happened on a board. For check and
// checkmate events Side is the side under attack.
type Event struct {
	Kind EventKind
	Side Side
	From Coordinate
	To   Coordinate
	Text string
}

// EventSink receives board events. Emit is called synchronously from
// MakeMove and must not call back into the board.
type EventSink interface {
	Emit(Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(Event)

func (f EventSinkFunc) Emit(e Event) {
	f(e)
}
