package app

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/purehyperbole/ringwalk"
	"github.com/purehyperbole/ringwalk/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "ringwalk.yaml")
	body := "host: 127.0.0.1\nstart_delay: 10ms\nlog:\n  outputs: [" + filepath.Join(t.TempDir(), "ringwalk.log") + "]\n"
	require.Nil(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func listen(t *testing.T, address string) *net.UDPConn {
	addr, err := net.ResolveUDPAddr("udp", address)
	require.Nil(t, err)

	conn, err := net.ListenUDP("udp", addr)
	require.Nil(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Nil(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	return conn
}

func receive(t *testing.T, conn *net.UDPConn, codec ringwalk.Codec) ringwalk.Message {
	buf := make([]byte, ringwalk.MaxDatagramSize)
	n, _, err := conn.ReadFromUDP(buf)
	require.Nil(t, err)

	m, err := codec.Decode(buf[:n])
	require.Nil(t, err)
	return m
}

func TestNodeWithoutNeighborsFails(t *testing.T) {
	err := Run(context.Background(), []string{"ringwalk", "--config", testConfig(t), "node", "-p", "9401"})
	assert.ErrorIs(t, err, ringwalk.ErrEmptyNeighbors)
}

func TestNodeRejectsBadPorts(t *testing.T) {
	err := Run(context.Background(), []string{"ringwalk", "--config", testConfig(t), "node", "-p", "70000", "9402"})
	assert.NotNil(t, err)

	err = Run(context.Background(), []string{"ringwalk", "--config", testConfig(t), "node", "-p", "9401", "nope"})
	assert.NotNil(t, err)
}

func TestNodeRelaysAndStops(t *testing.T) {
	neighbor := listen(t, "127.0.0.1:9412")

	done := make(chan error, 1)
	go func() {
		done <- Run(context.Background(), []string{
			"ringwalk", "--config", testConfig(t),
			"node", "-p", "9411", "--wire", "cbor", "--send-workers", "2", "9412",
		})
	}()

	assert.Equal(t, ringwalk.PingMessage(ringwalk.Ping{Source: 9411}), receive(t, neighbor, ringwalk.CBOR()))

	err := Run(context.Background(), []string{
		"ringwalk", "--config", testConfig(t),
		"send", "--to", "9411", "--wire", "cbor", "ping", "--source", "1", "--hops", "2",
	})
	require.Nil(t, err)

	assert.Equal(t, ringwalk.PingMessage(ringwalk.Ping{Source: 1, Hops: 3}), receive(t, neighbor, ringwalk.CBOR()))

	err = Run(context.Background(), []string{
		"ringwalk", "--config", testConfig(t),
		"send", "--to", "9411", "--wire", "cbor", "done",
	})
	require.Nil(t, err)

	select {
	case err := <-done:
		assert.Nil(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("node did not stop")
	}
}

func TestRingStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(300*time.Millisecond, cancel)

	err := Run(ctx, []string{
		"ringwalk", "--config", testConfig(t),
		"ring", "--ports", "9421,9422,9423",
	})
	assert.Nil(t, err)
}

func TestRingNeedsTwoPorts(t *testing.T) {
	err := Run(context.Background(), []string{"ringwalk", "--config", testConfig(t), "ring", "--ports", "9431"})
	assert.NotNil(t, err)
}

func TestNodeConfig(t *testing.T) {
	c := config.Default()
	c.Wire = "flatbuffers"
	c.SendWorkers = 3

	cfg, err := nodeConfig(c, 9001, []uint16{9002, 9003}, nil)
	require.Nil(t, err)

	assert.Equal(t, "[::1]:9001", cfg.ListenAddress)
	assert.Equal(t, 2, cfg.Neighbors.Len())
	assert.Equal(t, "flatbuffers", cfg.Codec.Name())
	assert.Equal(t, 3, cfg.SendWorkers)
}
