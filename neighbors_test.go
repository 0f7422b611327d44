package ringwalk

import (
	"math/rand"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeighborTableEmpty(t *testing.T) {
	_, err := NewNeighborTable(nil).PickRandom(rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrEmptyNeighbors)

	var nilTable *NeighborTable
	_, err = nilTable.PickRandom(rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrEmptyNeighbors)
	assert.Equal(t, 0, nilTable.Len())
}

func TestNeighborsFromPorts(t *testing.T) {
	nt, err := NeighborsFromPorts("::1", []uint16{9002, 9003})
	require.Nil(t, err)

	addrs := nt.Addrs()
	require.Len(t, addrs, 2)
	assert.Equal(t, "[::1]:9002", addrs[0].String())
	assert.Equal(t, "[::1]:9003", addrs[1].String())

	assert.True(t, nt.Contains(&net.UDPAddr{IP: net.IPv6loopback, Port: 9003}))
	assert.False(t, nt.Contains(&net.UDPAddr{IP: net.IPv6loopback, Port: 9001}))
}

func TestNeighborTablePickIsDeterministic(t *testing.T) {
	nt, err := NeighborsFromPorts("127.0.0.1", []uint16{1, 2, 3, 4, 5})
	require.Nil(t, err)

	r1 := rand.New(rand.NewSource(42))
	r2 := rand.New(rand.NewSource(42))

	for i := 0; i < 100; i++ {
		a, err := nt.PickRandom(r1)
		require.Nil(t, err)
		b, err := nt.PickRandom(r2)
		require.Nil(t, err)
		assert.Equal(t, a.String(), b.String())
	}
}

func TestNeighborTablePickCoversAll(t *testing.T) {
	ports := []uint16{9001, 9002, 9003}
	nt, err := NeighborsFromPorts("127.0.0.1", ports)
	require.Nil(t, err)

	rng := rand.New(rand.NewSource(7))
	seen := make(map[int]int)

	for i := 0; i < 3000; i++ {
		a, err := nt.PickRandom(rng)
		require.Nil(t, err)
		seen[a.Port]++
	}

	require.Len(t, seen, len(ports))

	for _, p := range ports {
		assert.InDelta(t, 1000, seen[int(p)], 150)
	}
}

func TestNeighborTableReturnsCopies(t *testing.T) {
	src := []*net.UDPAddr{{IP: net.IPv4(127, 0, 0, 1), Port: 9002}}
	nt := NewNeighborTable(src)

	// mutating the input must not reach the table
	src[0].Port = 1

	a, err := nt.PickRandom(rand.New(rand.NewSource(1)))
	require.Nil(t, err)
	assert.Equal(t, 9002, a.Port)

	// nor must mutating a pick
	a.Port = 2
	a.IP[0] = 10

	b, err := nt.PickRandom(rand.New(rand.NewSource(1)))
	require.Nil(t, err)
	assert.Equal(t, "127.0.0.1:9002", b.String())
}
