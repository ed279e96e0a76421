package game

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyShape         = errors.New("shape has no occupied cell")
	ErrJaggedShape        = errors.New("shape rows differ in length")
	ErrRequestInFlight    = errors.New("a turn request is already in flight")
	ErrOrientationPending = errors.New("orientation change still pending for piece")
	ErrWrongPhase         = errors.New("action not allowed in current phase")
	ErrNotHumanTurn       = errors.New("active seat is not human")
	ErrNotAITurn          = errors.New("active seat is not ai")
	ErrUnknownPiece       = errors.New("piece not in active inventory")
	ErrNotArmed           = errors.New("no piece armed")
	ErrSkipChainLimit     = errors.New("skip chain exceeded limit")
	ErrInvalidSeats       = errors.New("invalid seat assignment")
	ErrBadGrid            = errors.New("malformed board grid")
)

// TransportError means the authority could not be reached or answered with
// something other than an explicit refusal.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RejectedError is the authority refusing an intent, e.g. an illegal placement.
type RejectedError struct {
	Op     string
	Status int
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: rejected: %s", e.Op, e.Reason)
}

// InvariantError reports a local invariant violation. The operation that hit
// it is aborted; the session keeps running.
type InvariantError struct {
	Op  string
	Err error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: invariant violated: %v", e.Op, e.Err)
}

func (e *InvariantError) Unwrap() error { return e.Err }

func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func IsRejected(err error) bool {
	var re *RejectedError
	return errors.As(err, &re)
}

func IsInvariant(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}
