package ringwalk

import (
	"fmt"
	"sync"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/purehyperbole/ringwalk/protocol"
)

// smallest finished buffer: root offset, vtable and an empty table
const minFrameSize = 12

type flatbuffersCodec struct {
	builder sync.Pool
}

// FlatBuffers returns a compact binary codec using the protocol.Frame table
func FlatBuffers() Codec {
	return &flatbuffersCodec{
		builder: sync.Pool{
			New: func() any {
				return flatbuffers.NewBuilder(64)
			},
		},
	}
}

func (f *flatbuffersCodec) Name() string { return "flatbuffers" }

func (f *flatbuffersCodec) Encode(m Message) ([]byte, error) {
	var kind protocol.Kind

	switch m.kind {
	case KindPing:
		kind = protocol.KindPing
	case KindDone:
		kind = protocol.KindDone
	default:
		return nil, malformed("cannot encode %s message", m.kind)
	}

	b := f.builder.Get().(*flatbuffers.Builder)
	defer f.builder.Put(b)

	b.Reset()

	protocol.FrameStart(b)
	protocol.FrameAddHops(b, m.ping.Hops)
	protocol.FrameAddSource(b, m.ping.Source)
	protocol.FrameAddKind(b, kind)
	fr := protocol.FrameEnd(b)

	b.Finish(fr)
	fb := b.FinishedBytes()

	// the builder's buffer goes back to the pool
	out := make([]byte, len(fb))
	copy(out, fb)

	return out, nil
}

func (f *flatbuffersCodec) Decode(data []byte) (m Message, err error) {
	if len(data) < minFrameSize {
		return Message{}, malformed("frame too short (%d bytes)", len(data))
	}

	// accessors index straight into the buffer and panic on bad offsets
	defer func() {
		if r := recover(); r != nil {
			m = Message{}
			err = malformed("corrupt frame: %s", fmt.Sprint(r))
		}
	}()

	frame := protocol.GetRootAsFrame(data, 0)

	switch frame.Kind() {
	case protocol.KindPing:
		return PingMessage(Ping{Source: frame.Source(), Hops: frame.Hops()}), nil
	case protocol.KindDone:
		if frame.Source() != 0 || frame.Hops() != 0 {
			return Message{}, malformed("done frame carries a ping body")
		}
		return DoneMessage(), nil
	default:
		return Message{}, malformed("unknown frame kind %s", frame.Kind())
	}
}
