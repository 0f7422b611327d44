package ringwalk

import (
	"math"
	"math/rand"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine(t *testing.T, id uint16, ports ...uint16) *Engine {
	nt, err := NeighborsFromPorts("127.0.0.1", ports)
	require.Nil(t, err)
	return &Engine{ID: id, Neighbors: nt}
}

func TestRelayDoneStops(t *testing.T) {
	engines := []*Engine{
		testEngine(t, 9001, 9002, 9003),
		testEngine(t, 0),
		{ID: 5},
	}

	for _, e := range engines {
		action, err := e.Relay(DoneMessage(), nil, rand.New(rand.NewSource(1)))
		require.Nil(t, err)
		assert.Equal(t, ActionStop, action.Kind)
	}
}

func TestRelayArrival(t *testing.T) {
	from := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9003}
	rng := rand.New(rand.NewSource(1))

	engines := []*Engine{
		testEngine(t, 9001, 9002, 9003),
		testEngine(t, 9001, 9001),
		testEngine(t, 9001),
	}

	for _, e := range engines {
		for _, hops := range []uint32{0, 1, 17, math.MaxUint32} {
			p := Ping{Source: 9001, Hops: hops}

			action, err := e.Relay(PingMessage(p), from, rng)
			require.Nil(t, err)
			assert.Equal(t, ActionArrived, action.Kind)
			assert.Equal(t, p, action.Ping)
			assert.Equal(t, from, action.Via)
			assert.Nil(t, action.To)
		}
	}
}

func TestRelayForwardIncrementsHops(t *testing.T) {
	e := testEngine(t, 9001, 9002, 9003)
	rng := rand.New(rand.NewSource(99))

	p := Ping{Source: 9002, Hops: 0}

	for i := 0; i < 50; i++ {
		action, err := e.Relay(PingMessage(p), nil, rng)
		require.Nil(t, err)
		require.Equal(t, ActionForward, action.Kind)

		assert.Equal(t, p.Source, action.Ping.Source)
		assert.Equal(t, p.Hops+1, action.Ping.Hops)
		assert.True(t, e.Neighbors.Contains(action.To))

		p = action.Ping
	}

	assert.Equal(t, uint32(50), p.Hops)
}

func TestRelayErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := testEngine(t, 9001).Relay(PingMessage(Ping{Source: 9002}), nil, rng)
	assert.ErrorIs(t, err, ErrEmptyNeighbors)

	_, err = testEngine(t, 9001, 9002).Relay(PingMessage(Ping{Source: 9002, Hops: math.MaxUint32}), nil, rng)
	assert.ErrorIs(t, err, ErrHopOverflow)

	_, err = testEngine(t, 9001, 9002).Relay(Message{}, nil, rng)
	assert.ErrorIs(t, err, ErrMalformedMessage)
}
