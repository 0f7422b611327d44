package ringwalk

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/ipv4"
)

const (
	readBackoffMin = 10 * time.Millisecond
	readBackoffMax = time.Second
)

// Node is one relay in the network. It owns a single UDP socket and handles
// inbound datagrams one at a time.
type Node struct {
	id        uint16
	addr      *net.UDPAddr
	engine    *Engine
	codec     Codec
	rng       Rand
	delay     time.Duration
	logger    *zap.Logger
	onArrival func(a Arrival)
	conn      net.PacketConn
	reader    batchReader
	readBatch []ipv4.Message
	sender    *sender
	closer    sync.Once
	started   atomic.Bool
}

// New binds the node's socket. It fails with ErrEmptyNeighbors before
// touching the network if there is nobody to relay to, and with a
// *BindError if the socket cannot be opened.
func New(cfg *Config) (*Node, error) {
	c := cfg.withDefaults()

	if c.Neighbors.Len() < 1 {
		return nil, ErrEmptyNeighbors
	}

	conn, reader, err := listen(c.ListenAddress, c.ReuseAddr)
	if err != nil {
		return nil, err
	}

	addr := conn.LocalAddr().(*net.UDPAddr)
	id := uint16(addr.Port)
	logger := c.Logger.With(zap.Uint16("node", id))

	n := &Node{
		id:        id,
		addr:      addr,
		engine:    &Engine{ID: id, Neighbors: c.Neighbors},
		codec:     c.Codec,
		rng:       c.Rand,
		delay:     c.StartDelay,
		logger:    logger,
		onArrival: c.OnArrival,
		conn:      conn,
		reader:    reader,
		readBatch: make([]ipv4.Message, c.BatchSize),
		sender:    newSender(conn, c.SendWorkers, logger),
	}

	for i := range n.readBatch {
		n.readBatch[i].Buffers = [][]byte{make([]byte, MaxDatagramSize)}
	}

	logger.Info(
		"node listening",
		zap.Stringer("address", addr),
		zap.Stringers("neighbors", c.Neighbors.Addrs()),
		zap.String("codec", c.Codec.Name()),
		zap.Int("send_workers", c.SendWorkers),
	)

	if c.Neighbors.Contains(addr) {
		logger.Warn("neighbor table contains this node's own address")
	}

	return n, nil
}

// ID returns the node's identifier, the port it is bound to
func (n *Node) ID() uint16 {
	return n.id
}

// Addr returns the address the node is listening on
func (n *Node) Addr() *net.UDPAddr {
	return copyAddr(n.addr)
}

// Close releases the socket. A running Run returns nil.
func (n *Node) Close() error {
	var err error
	n.closer.Do(func() {
		err = n.conn.Close()
	})
	return err
}

// Run waits for the start delay, sends this node's ping to a random neighbor,
// then relays inbound messages until a Done arrives (returns nil) or ctx is
// cancelled (returns ctx.Err()). The socket is closed when Run returns, so a
// node can only be run once; later calls return ErrNodeStarted.
func (n *Node) Run(ctx context.Context) error {
	if !n.started.CompareAndSwap(false, true) {
		return ErrNodeStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer n.Close()

	go func() {
		<-ctx.Done()
		n.Close()
	}()

	n.sender.run()
	defer n.sender.stop()

	timer := time.NewTimer(n.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	n.kickoff()

	var backoff time.Duration

	for {
		rb, err := n.reader.ReadBatch(n.readBatch, 0)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}

			backoff = nextBackoff(backoff)
			n.logger.Warn("socket read failed", zap.Error(err), zap.Duration("retry_in", backoff))

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			continue
		}

		backoff = 0

		for i := 0; i < rb; i++ {
			sm := n.readBatch[i]

			if n.handle(sm.Buffers[0][:sm.N], sm.Addr) {
				n.logger.Info("received done, stopping")
				return nil
			}
		}
	}
}

// nextBackoff doubles the wait between failed reads, up to readBackoffMax
func nextBackoff(d time.Duration) time.Duration {
	if d < readBackoffMin {
		return readBackoffMin
	}
	if d*2 > readBackoffMax {
		return readBackoffMax
	}
	return d * 2
}

func (n *Node) kickoff() {
	to, err := n.engine.Neighbors.PickRandom(n.rng)
	if err != nil {
		n.logger.Error("no neighbor for initial ping", zap.Error(err))
		return
	}

	n.logger.Info("sending initial ping", zap.Stringer("to", to))

	n.forward(Ping{Source: n.id}, to)
}

// handle processes one datagram and reports whether the node should stop
func (n *Node) handle(data []byte, from net.Addr) bool {
	msg, err := n.codec.Decode(data)
	if err != nil {
		n.logger.Warn("discarding malformed datagram", zap.Stringer("from", from), zap.Error(err))
		return false
	}

	action, err := n.engine.Relay(msg, from, n.rng)
	if err != nil {
		n.logger.Warn("dropping message", zap.Stringer("from", from), zap.Error(err))
		return false
	}

	switch action.Kind {
	case ActionStop:
		return true
	case ActionArrived:
		n.logger.Info(
			"ping returned home",
			zap.Uint16("origin", action.Ping.Source),
			zap.Stringer("via", action.Via),
			zap.Uint32("hops", action.Ping.Hops),
		)
		n.onArrival(Arrival{
			Origin: action.Ping.Source,
			Via:    addrString(action.Via),
			Hops:   action.Ping.Hops,
		})
	case ActionForward:
		n.forward(action.Ping, action.To)
	}

	return false
}

func (n *Node) forward(p Ping, to *net.UDPAddr) {
	data, err := n.codec.Encode(PingMessage(p))
	if err != nil {
		n.logger.Error("failed to encode ping", zap.Error(err))
		return
	}

	err = n.sender.send(to, data)
	if err != nil {
		n.logger.Warn("send failed", zap.Error(err))
		return
	}

	n.logger.Debug(
		"relayed ping",
		zap.Uint16("source", p.Source),
		zap.Uint32("hops", p.Hops),
		zap.Stringer("to", to),
	)
}

func addrString(a net.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}
