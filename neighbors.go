package ringwalk

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"net"
	"strconv"
)

// Rand is the source of randomness used to pick neighbors. *rand.Rand
// satisfies it; it does not need to be safe for concurrent use.
type Rand interface {
	Intn(n int) int
}

// NewRand returns a rand.Rand seeded from crypto/rand
func NewRand() *rand.Rand {
	rd := make([]byte, 8)
	crand.Read(rd)

	seed := binary.LittleEndian.Uint64(rd)
	source := rand.NewSource(int64(seed))

	return rand.New(source)
}

// NeighborTable is the fixed set of addresses a node relays to
type NeighborTable struct {
	nodes []*net.UDPAddr
}

// NewNeighborTable creates a table from a copy of the given addresses
func NewNeighborTable(nodes []*net.UDPAddr) *NeighborTable {
	t := &NeighborTable{
		nodes: make([]*net.UDPAddr, len(nodes)),
	}

	for i := range nodes {
		t.nodes[i] = copyAddr(nodes[i])
	}

	return t
}

// NeighborsFromPorts builds a table of addresses sharing one host
func NeighborsFromPorts(host string, ports []uint16) (*NeighborTable, error) {
	nodes := make([]*net.UDPAddr, len(ports))

	for i := range ports {
		addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(host, strconv.Itoa(int(ports[i]))))
		if err != nil {
			return nil, err
		}
		nodes[i] = addr
	}

	return &NeighborTable{nodes: nodes}, nil
}

// PickRandom returns a copy of one neighbor chosen uniformly with rng
func (t *NeighborTable) PickRandom(rng Rand) (*net.UDPAddr, error) {
	if t == nil || len(t.nodes) < 1 {
		return nil, ErrEmptyNeighbors
	}

	return copyAddr(t.nodes[rng.Intn(len(t.nodes))]), nil
}

// Len returns the number of neighbors
func (t *NeighborTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// Addrs returns a copy of the neighbor addresses, in order
func (t *NeighborTable) Addrs() []*net.UDPAddr {
	out := make([]*net.UDPAddr, t.Len())
	for i := range out {
		out[i] = copyAddr(t.nodes[i])
	}
	return out
}

// Contains reports whether addr is one of the neighbors
func (t *NeighborTable) Contains(addr *net.UDPAddr) bool {
	for i := 0; i < t.Len(); i++ {
		if t.nodes[i].IP.Equal(addr.IP) && t.nodes[i].Port == addr.Port {
			return true
		}
	}
	return false
}

func copyAddr(a *net.UDPAddr) *net.UDPAddr {
	ip := make(net.IP, len(a.IP))
	copy(ip, a.IP)

	return &net.UDPAddr{
		IP:   ip,
		Port: a.Port,
		Zone: a.Zone,
	}
}
