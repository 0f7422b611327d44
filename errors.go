package ringwalk

import (
	"errors"
	"fmt"
	"net"
)

var (
	// ErrEmptyNeighbors a node without neighbors has nowhere to relay to
	ErrEmptyNeighbors = errors.New("ringwalk: neighbor table is empty")
	// ErrMalformedMessage a datagram that does not decode to a valid message
	ErrMalformedMessage = errors.New("ringwalk: malformed message")
	// ErrHopOverflow the hop counter cannot be incremented any further
	ErrHopOverflow = errors.New("ringwalk: hop counter exhausted")
	// ErrUnknownCodec no codec is registered under the requested name
	ErrUnknownCodec = errors.New("ringwalk: unknown codec")
	// ErrNodeStarted Run may only be called once per node
	ErrNodeStarted = errors.New("ringwalk: node has already been run")
)

// BindError the node could not open its listening socket
type BindError struct {
	Address string
	Err     error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("ringwalk: bind %s: %s", e.Address, e.Err.Error())
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// SendError a datagram could not be written to a neighbor
type SendError struct {
	To  net.Addr
	Err error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("ringwalk: send to %s: %s", e.To, e.Err.Error())
}

func (e *SendError) Unwrap() error {
	return e.Err
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedMessage, fmt.Sprintf(format, args...))
}
