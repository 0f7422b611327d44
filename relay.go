package ringwalk

import "net"

// ActionKind tells the node loop what to do with a relay decision
type ActionKind uint8

const (
	// ActionForward send Ping to To
	ActionForward ActionKind = iota + 1
	// ActionArrived the ping is back at its origin, Via is the last hop
	ActionArrived
	// ActionStop the node should stop relaying
	ActionStop
)

func (k ActionKind) String() string {
	switch k {
	case ActionForward:
		return "forward"
	case ActionArrived:
		return "arrived"
	case ActionStop:
		return "stop"
	default:
		return "invalid"
	}
}

// RelayAction is the outcome of relaying one inbound message
type RelayAction struct {
	Kind ActionKind
	Ping Ping
	To   *net.UDPAddr
	Via  net.Addr
}

// Engine decides what happens to each inbound message. It holds no state
// between calls.
type Engine struct {
	// ID of the local node, compared against a ping's source
	ID        uint16
	Neighbors *NeighborTable
}

// Relay decides the fate of a message received from the given address
func (e *Engine) Relay(in Message, from net.Addr, rng Rand) (RelayAction, error) {
	switch in.kind {
	case KindDone:
		return RelayAction{Kind: ActionStop}, nil
	case KindPing:
	default:
		return RelayAction{}, malformed("cannot relay %s message", in.kind)
	}

	if in.ping.Source == e.ID {
		return RelayAction{Kind: ActionArrived, Ping: in.ping, Via: from}, nil
	}

	next, err := in.ping.Next()
	if err != nil {
		return RelayAction{}, err
	}

	to, err := e.Neighbors.PickRandom(rng)
	if err != nil {
		return RelayAction{}, err
	}

	return RelayAction{Kind: ActionForward, Ping: next, To: to}, nil
}
