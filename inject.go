package ringwalk

import (
	"context"
	"net"
)

// Inject sends a single message to a node from a throwaway socket
func Inject(ctx context.Context, codec Codec, to *net.UDPAddr, m Message) error {
	data, err := codec.Encode(m)
	if err != nil {
		return err
	}

	var d net.Dialer

	c, err := d.DialContext(ctx, "udp", to.String())
	if err != nil {
		return &SendError{To: to, Err: err}
	}
	defer c.Close()

	if deadline, ok := ctx.Deadline(); ok {
		c.SetWriteDeadline(deadline)
	}

	_, err = c.Write(data)
	if err != nil {
		return &SendError{To: to, Err: err}
	}

	return nil
}
