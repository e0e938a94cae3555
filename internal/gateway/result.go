package gateway

// Status tells how a mutation that did not fail ended.
type Status int

const (
	// StatusCommitted means the change was written.
	StatusCommitted Status = iota
	// StatusCancelled means the user declined a prompt; nothing was written.
	StatusCancelled
)

func (s Status) String() string {
	if s == StatusCancelled {
		return "cancelled"
	}
	return "committed"
}

// Result is the outcome of a mutation that did not fail. Value is the zero
// value unless Status is StatusCommitted.
type Result[T any] struct {
	Value  T
	Status Status
	// SignedOut is true when the mutation ended the user's session.
	SignedOut bool
}

func committed[T any](v T) Result[T] {
	return Result[T]{Value: v, Status: StatusCommitted}
}

func cancelled[T any]() Result[T] {
	return Result[T]{Status: StatusCancelled}
}
