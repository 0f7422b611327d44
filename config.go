package ringwalk

import (
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultStartDelay time given to peers to bind before the first ping is sent
	DefaultStartDelay = time.Second
	// DefaultBatchSize how many datagrams are read from the socket at once
	DefaultBatchSize = 64
	// MaxDatagramSize largest payload a node will read
	MaxDatagramSize = 1500
)

// Arrival a ping that made it back to the node it started from
type Arrival struct {
	Origin uint16
	Via    string
	Hops   uint32
}

// Config defines configuration for a relay node
type Config struct {
	// ListenAddress UDP Address to listen on. The bound port is the node's id
	ListenAddress string
	// Neighbors the addresses pings are relayed to
	Neighbors *NeighborTable
	// StartDelay wait before sending the node's own ping, defaults to DefaultStartDelay
	StartDelay time.Duration
	// Codec wire encoding, defaults to JSON. All nodes must agree
	Codec Codec
	// Rand source for neighbor selection, defaults to a crypto seeded source
	Rand Rand
	// SendWorkers when above zero, sends are handed to a bounded pool of this many workers
	SendWorkers int
	// BatchSize datagrams read per socket call, defaults to DefaultBatchSize
	BatchSize int
	// ReuseAddr sets SO_REUSEADDR on the socket
	ReuseAddr bool
	// Logger defaults to zap.L()
	Logger *zap.Logger
	// OnArrival callback for when one of this node's pings returns home
	OnArrival func(a Arrival)
}

func (c *Config) withDefaults() Config {
	cfg := *c

	if cfg.StartDelay <= 0 {
		cfg.StartDelay = DefaultStartDelay
	}

	if cfg.Codec == nil {
		cfg.Codec = JSON()
	}

	if cfg.Rand == nil {
		cfg.Rand = NewRand()
	}

	if cfg.BatchSize < 1 {
		cfg.BatchSize = DefaultBatchSize
	}

	if cfg.SendWorkers < 0 {
		cfg.SendWorkers = 0
	}

	if cfg.Logger == nil {
		cfg.Logger = zap.L()
	}

	if cfg.OnArrival == nil {
		cfg.OnArrival = func(Arrival) {}
	}

	return cfg
}
