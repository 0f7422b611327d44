package app

import (
	"context"
	"fmt"
	"math"
	"net"
	"strconv"
	"time"

	"github.com/purehyperbole/ringwalk"
	"github.com/purehyperbole/ringwalk/internal/flagutil"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func sendCmd(st *env) *cli.Command {
	var to uint
	var host, wire string
	timeout := 2 * time.Second

	send := func(ctx *cli.Context, m ringwalk.Message) error {
		if host == "" {
			host = st.cfg.Host
		}
		if wire == "" {
			wire = st.cfg.Wire
		}

		port, err := flagutil.Port(to)
		if err != nil {
			return err
		}

		codec, err := ringwalk.LookupCodec(wire)
		if err != nil {
			return err
		}

		addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(host, strconv.Itoa(int(port))))
		if err != nil {
			return err
		}

		sctx, cancel := context.WithTimeout(ctx.Context, timeout)
		defer cancel()

		err = ringwalk.Inject(sctx, codec, addr, m)
		if err != nil {
			return err
		}

		st.logger.Info("message sent", zap.Stringer("kind", m.Kind()), zap.Stringer("to", addr))

		return nil
	}

	var source, hops uint

	return &cli.Command{
		Name:  "send",
		Usage: "Sends a single message to a node",
		Flags: []cli.Flag{
			flagutil.Uint(&to, "to", nil, "", "Port of the receiving node", true),
			flagutil.String(&host, "host", nil, envPrefix, "Host of the receiving node", false),
			flagutil.String(&wire, "wire", nil, envPrefix, "Wire codec: json, cbor or flatbuffers", false),
			flagutil.Duration(&timeout, "timeout", nil, "", "Give up sending after this long", false),
		},
		Subcommands: []*cli.Command{
			{
				Name:  "done",
				Usage: "Tells the node to stop relaying",
				Action: func(ctx *cli.Context) error {
					return send(ctx, ringwalk.DoneMessage())
				},
			},
			{
				Name:  "ping",
				Usage: "Starts a walk on behalf of another node",
				Flags: []cli.Flag{
					flagutil.Uint(&source, "source", nil, "", "Origin node id", true),
					flagutil.Uint(&hops, "hops", nil, "", "Hop count to start from", false),
				},
				Action: func(ctx *cli.Context) error {
					src, err := flagutil.Port(source)
					if err != nil {
						return err
					}

					if hops > math.MaxUint32 {
						return fmt.Errorf("hops %d out of range", hops)
					}

					return send(ctx, ringwalk.PingMessage(ringwalk.Ping{Source: src, Hops: uint32(hops)}))
				},
			},
		},
	}
}
