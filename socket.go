package ringwalk

import (
	"context"
	"net"
	"syscall"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
	"golang.org/x/sys/unix"
)

// batchReader is satisfied by both ipv4.PacketConn and ipv6.PacketConn
type batchReader interface {
	ReadBatch(ms []ipv4.Message, flags int) (int, error)
}

func listen(address string, reuse bool) (net.PacketConn, batchReader, error) {
	lcfg := net.ListenConfig{}
	if reuse {
		lcfg.Control = control
	}

	c, err := lcfg.ListenPacket(context.Background(), "udp", address)
	if err != nil {
		return nil, nil, &BindError{Address: address, Err: err}
	}

	if c.LocalAddr().(*net.UDPAddr).IP.To4() != nil {
		return c, ipv4.NewPacketConn(c), nil
	}

	return c, ipv6.NewPacketConn(c), nil
}

func control(network, address string, c syscall.RawConn) error {
	var err error

	cerr := c.Control(func(fd uintptr) {
		err = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	})
	if cerr != nil {
		return cerr
	}

	return err
}
