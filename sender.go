package ringwalk

import (
	"net"
	"sync"

	"go.uber.org/zap"
)

// sendQueueSize datagrams that may wait per send worker before Store blocks
const sendQueueSize = 128

type datagram struct {
	to   *net.UDPAddr
	data []byte
}

// sender writes datagrams either inline or through a bounded worker pool
type sender struct {
	conn    net.PacketConn
	logger  *zap.Logger
	queue   chan datagram
	workers int
	wg      sync.WaitGroup
}

func newSender(conn net.PacketConn, workers int, logger *zap.Logger) *sender {
	s := &sender{
		conn:    conn,
		logger:  logger,
		workers: workers,
	}

	if workers > 0 {
		s.queue = make(chan datagram, workers*sendQueueSize)
	}

	return s
}

// run starts the pool, if there is one
func (s *sender) run() {
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for d := range s.queue {
				s.report(s.write(d))
			}
		}()
	}
}

// stop closes the queue and waits for the workers to drain it
func (s *sender) stop() {
	if s.workers < 1 {
		return
	}
	close(s.queue)
	s.wg.Wait()
}

// send writes the datagram now, or queues it for a worker. Queued sends
// report their own errors, so only inline sends return one.
func (s *sender) send(to *net.UDPAddr, data []byte) error {
	if s.workers < 1 {
		return s.write(datagram{to: to, data: data})
	}

	s.queue <- datagram{to: to, data: data}

	return nil
}

func (s *sender) write(d datagram) error {
	_, err := s.conn.WriteTo(d.data, d.to)
	if err != nil {
		return &SendError{To: d.to, Err: err}
	}
	return nil
}

func (s *sender) report(err error) {
	if err != nil {
		s.logger.Warn("send failed", zap.Error(err))
	}
}
