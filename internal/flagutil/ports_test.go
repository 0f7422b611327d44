package flagutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPorts(t *testing.T) {
	ports, err := Ports([]string{"9002", "9003,9004", " 9005 ", ""})
	require.Nil(t, err)
	assert.Equal(t, []uint16{9002, 9003, 9004, 9005}, ports)

	ports, err = Ports(nil)
	require.Nil(t, err)
	assert.Empty(t, ports)

	for _, bad := range []string{"65536", "-1", "abc", "90.1"} {
		_, err := Ports([]string{bad})
		assert.NotNil(t, err, bad)
	}
}

func TestPort(t *testing.T) {
	p, err := Port(9001)
	require.Nil(t, err)
	assert.Equal(t, uint16(9001), p)

	_, err = Port(70000)
	assert.NotNil(t, err)
}

func TestComputeEnvVar(t *testing.T) {
	assert.Equal(t, []string{"RINGWALK_SEND_WORKERS"}, computeEnvVar("RINGWALK", "send-workers"))
	assert.Equal(t, []string{"RINGWALK_LOG_LEVEL"}, computeEnvVar("RINGWALK", "log--level"))
	assert.Nil(t, computeEnvVar("", "port"))
}
