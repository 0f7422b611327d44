package ringwalk

import "math"

// Kind identifies which variant a Message carries
type Kind uint8

const (
	// KindPing a counted relay message
	KindPing Kind = iota + 1
	// KindDone a request for the receiving node to stop relaying
	KindDone
)

func (k Kind) String() string {
	switch k {
	case KindPing:
		return "Ping"
	case KindDone:
		return "Done"
	default:
		return "Invalid"
	}
}

// Ping a message walking the network, counting the hops since it left Source
type Ping struct {
	Source uint16
	Hops   uint32
}

// Next returns the ping as it should look after one more hop
func (p Ping) Next() (Ping, error) {
	if p.Hops == math.MaxUint32 {
		return Ping{}, ErrHopOverflow
	}

	return Ping{Source: p.Source, Hops: p.Hops + 1}, nil
}

// Message is either a Ping or Done. The zero value is neither and is rejected
// by codecs and the relay engine.
type Message struct {
	kind Kind
	ping Ping
}

// PingMessage wraps a ping as a message
func PingMessage(p Ping) Message {
	return Message{kind: KindPing, ping: p}
}

// DoneMessage returns the stop message
func DoneMessage() Message {
	return Message{kind: KindDone}
}

// Kind returns the variant the message carries
func (m Message) Kind() Kind {
	return m.kind
}

// Ping returns the ping payload, if the message is a ping
func (m Message) Ping() (Ping, bool) {
	return m.ping, m.kind == KindPing
}
