/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package transport

import (
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	liberr "github.com/cmcp-project/cmcp/errors"
)

// subject returns the NATS subject a given 16-bit topic ID is published
// under. CMCP's own topic/broadcast addressing lives in the message header;
// this is only the transport's routing key.
func subject(topic uint16) string {
	return fmt.Sprintf("cmcp.%04x", topic)
}

// natsSocket implements Socket over a single NATS connection. Bind and
// Connect both dial the broker: NATS has no listen/dial asymmetry, every
// participant connects to the same broker, so Bind and Connect behave alike.
type natsSocket struct {
	mu   sync.Mutex
	conn *nats.Conn
	subs map[uint16]*nats.Subscription
	ch   chan *nats.Msg
	rto  time.Duration
}

func NewNatsDialer() Dialer {
	return &natsDialer{}
}

type natsDialer struct{}

func (natsDialer) NewSocket() (Socket, error) {
	return &natsSocket{
		subs: make(map[uint16]*nats.Subscription),
		ch:   make(chan *nats.Msg, 256),
		rto:  500 * time.Millisecond,
	}, nil
}

func (s *natsSocket) dial(addr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return liberr.EALREADY.Error(nil)
	}

	c, err := nats.Connect(addr, nats.Name("cmcp"))
	if err != nil {
		return ErrBroker.Error(err)
	}

	s.conn = c
	return nil
}

func (s *natsSocket) Bind(addr string) error {
	return s.dial(addr)
}

func (s *natsSocket) Connect(addr string) error {
	return s.dial(addr)
}

func (s *natsSocket) SetRecvTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rto = d
}

func (s *natsSocket) Subscribe(topic uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return liberr.ENOTCONN.Error(nil)
	}
	if _, ok := s.subs[topic]; ok {
		return nil
	}

	sub, err := s.conn.ChanSubscribe(subject(topic), s.ch)
	if err != nil {
		return ErrBroker.Error(err)
	}

	s.subs[topic] = sub
	return nil
}

func (s *natsSocket) Unsubscribe(topic uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[topic]
	if !ok {
		return nil
	}

	delete(s.subs, topic)
	return sub.Unsubscribe()
}

func (s *natsSocket) Send(buf []byte) error {
	s.mu.Lock()
	c := s.conn
	s.mu.Unlock()

	if c == nil {
		return liberr.ENOTCONN.Error(nil)
	}
	if len(buf) < 2 {
		return liberr.EINVAL.Error(nil)
	}

	topic := uint16(buf[0]) | uint16(buf[1])<<8
	if err := c.Publish(subject(topic), buf); err != nil {
		return ErrBroker.Error(err)
	}

	return nil
}

func (s *natsSocket) Recv() ([]byte, error) {
	s.mu.Lock()
	to := s.rto
	s.mu.Unlock()

	select {
	case m, ok := <-s.ch:
		if !ok {
			return nil, liberr.ENOTCONN.Error(nil)
		}
		return m.Data, nil
	case <-time.After(to):
		return nil, ErrTimeout
	}
}

func (s *natsSocket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	s.subs = make(map[uint16]*nats.Subscription)

	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	return nil
}
