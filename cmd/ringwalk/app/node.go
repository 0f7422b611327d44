package app

import (
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/purehyperbole/ringwalk"
	"github.com/purehyperbole/ringwalk/internal/config"
	"github.com/purehyperbole/ringwalk/internal/flagutil"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// nodeFlags override the loaded config for commands that start nodes
type nodeFlags struct {
	host        string
	startDelay  time.Duration
	wire        string
	sendWorkers int
	batchSize   int
	reuseAddr   bool
}

func (f *nodeFlags) flags() []cli.Flag {
	return []cli.Flag{
		flagutil.String(&f.host, "host", nil, envPrefix, "Host shared by every node", false),
		flagutil.Duration(&f.startDelay, "start-delay", nil, envPrefix, "Wait before sending the node's own ping, must be above zero", false),
		flagutil.String(&f.wire, "wire", nil, envPrefix, "Wire codec: json, cbor or flatbuffers", false),
		flagutil.Int(&f.sendWorkers, "send-workers", nil, envPrefix, "Send through a bounded pool of this many workers, 0 sends inline", false),
		flagutil.Int(&f.batchSize, "batch-size", nil, envPrefix, "Datagrams read per socket call", false),
		flagutil.Bool(&f.reuseAddr, "reuse-addr", nil, envPrefix, "Set SO_REUSEADDR on the socket", false),
	}
}

func (f *nodeFlags) apply(ctx *cli.Context, cfg *config.Config) error {
	if ctx.IsSet("host") {
		cfg.Host = f.host
	}
	if ctx.IsSet("start-delay") {
		cfg.StartDelay = f.startDelay
	}
	if ctx.IsSet("wire") {
		cfg.Wire = f.wire
	}
	if ctx.IsSet("send-workers") {
		cfg.SendWorkers = f.sendWorkers
	}
	if ctx.IsSet("batch-size") {
		cfg.BatchSize = f.batchSize
	}
	if ctx.IsSet("reuse-addr") {
		cfg.ReuseAddr = f.reuseAddr
	}
	return cfg.Validate()
}

func nodeConfig(cfg *config.Config, port uint16, neighbors []uint16, logger *zap.Logger) (*ringwalk.Config, error) {
	codec, err := ringwalk.LookupCodec(cfg.Wire)
	if err != nil {
		return nil, err
	}

	nt, err := ringwalk.NeighborsFromPorts(cfg.Host, neighbors)
	if err != nil {
		return nil, err
	}

	return &ringwalk.Config{
		ListenAddress: net.JoinHostPort(cfg.Host, strconv.Itoa(int(port))),
		Neighbors:     nt,
		StartDelay:    cfg.StartDelay,
		Codec:         codec,
		SendWorkers:   cfg.SendWorkers,
		BatchSize:     cfg.BatchSize,
		ReuseAddr:     cfg.ReuseAddr,
		Logger:        logger,
	}, nil
}

func nodeCmd(st *env) *cli.Command {
	var port uint
	nf := &nodeFlags{}

	return &cli.Command{
		Name:      "node",
		Usage:     "Starts a relay node",
		ArgsUsage: "NEIGHBOR_PORT...",
		Flags: append([]cli.Flag{
			flagutil.Uint(&port, "port", []string{"p"}, envPrefix, "UDP port to listen on, also the node id", true),
		}, nf.flags()...),
		Action: func(ctx *cli.Context) error {
			err := nf.apply(ctx, st.cfg)
			if err != nil {
				return err
			}

			p, err := flagutil.Port(port)
			if err != nil {
				return err
			}

			neighbors, err := flagutil.Ports(ctx.Args().Slice())
			if err != nil {
				return err
			}

			cfg, err := nodeConfig(st.cfg, p, neighbors, st.logger)
			if err != nil {
				return err
			}

			n, err := ringwalk.New(cfg)
			if err != nil {
				return err
			}

			return ignoreCanceled(n.Run(ctx.Context))
		},
	}
}

func ringCmd(st *env) *cli.Command {
	var ports cli.StringSlice
	nf := &nodeFlags{}

	return &cli.Command{
		Name:  "ring",
		Usage: "Starts one node per port in this process, each with all the others as neighbors",
		Flags: append([]cli.Flag{
			flagutil.StringSlice(&ports, "ports", nil, envPrefix, "Ports of the nodes to start", true),
		}, nf.flags()...),
		Action: func(ctx *cli.Context) error {
			err := nf.apply(ctx, st.cfg)
			if err != nil {
				return err
			}

			ps, err := flagutil.Ports(ports.Value())
			if err != nil {
				return err
			}

			if len(ps) < 2 {
				return errors.New("a ring needs at least two ports")
			}

			logger := st.logger.With(zap.String("run", uuid.NewString()))

			nodes := make([]*ringwalk.Node, 0, len(ps))
			for i := range ps {
				others := make([]uint16, 0, len(ps)-1)
				others = append(others, ps[:i]...)
				others = append(others, ps[i+1:]...)

				cfg, err := nodeConfig(st.cfg, ps[i], others, logger)
				if err == nil {
					var n *ringwalk.Node
					n, err = ringwalk.New(cfg)
					nodes = append(nodes, n)
				}

				if err != nil {
					for _, n := range nodes {
						if n != nil {
							n.Close()
						}
					}
					return err
				}
			}

			g, gctx := errgroup.WithContext(ctx.Context)
			for _, n := range nodes {
				n := n // per-iteration copy (Go 1.22 loopvar semantics)
				g.Go(func() error {
					return n.Run(gctx)
				})
			}

			return ignoreCanceled(g.Wait())
		},
	}
}
