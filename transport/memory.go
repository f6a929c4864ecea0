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
	"sync"
	"time"

	liberr "github.com/cmcp-project/cmcp/errors"
)

// broker is a process-local fan-out point keyed by address, standing in for
// a NATS broker in tests that would otherwise need a live server. Every
// memSocket bound or connected to the same address shares one broker.
type broker struct {
	mu   sync.Mutex
	subs map[*memSocket]map[uint16]bool
}

var brokers = struct {
	mu sync.Mutex
	m  map[string]*broker
}{m: make(map[string]*broker)}

func brokerFor(addr string) *broker {
	brokers.mu.Lock()
	defer brokers.mu.Unlock()

	b, ok := brokers.m[addr]
	if !ok {
		b = &broker{subs: make(map[*memSocket]map[uint16]bool)}
		brokers.m[addr] = b
	}
	return b
}

func (b *broker) publish(buf []byte) {
	if len(buf) < 2 {
		return
	}
	topic := uint16(buf[0]) | uint16(buf[1])<<8

	b.mu.Lock()
	defer b.mu.Unlock()

	for s, topics := range b.subs {
		if topics[topic] {
			cp := append([]byte(nil), buf...)
			select {
			case s.ch <- cp:
			default:
			}
		}
	}
}

func (b *broker) subscribe(s *memSocket, topic uint16) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[s] == nil {
		b.subs[s] = make(map[uint16]bool)
	}
	b.subs[s][topic] = true
}

func (b *broker) unsubscribe(s *memSocket, topic uint16) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[s] != nil {
		delete(b.subs[s], topic)
	}
}

func (b *broker) leave(s *memSocket) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, s)
}

// memSocket implements Socket entirely in-process. It is used by the core
// package's own tests and is a faithful stand-in for natsSocket: same
// subscribe-by-topic, send/recv, and timeout semantics, minus the network.
type memSocket struct {
	mu  sync.Mutex
	b   *broker
	ch  chan []byte
	rto time.Duration
}

func NewMemoryDialer() Dialer {
	return &memDialer{}
}

type memDialer struct{}

func (memDialer) NewSocket() (Socket, error) {
	return &memSocket{
		ch:  make(chan []byte, 256),
		rto: 500 * time.Millisecond,
	}, nil
}

func (s *memSocket) Bind(addr string) error {
	return s.attach(addr)
}

func (s *memSocket) Connect(addr string) error {
	return s.attach(addr)
}

func (s *memSocket) attach(addr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.b != nil {
		return liberr.EALREADY.Error(nil)
	}
	s.b = brokerFor(addr)
	return nil
}

func (s *memSocket) SetRecvTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rto = d
}

func (s *memSocket) Subscribe(topic uint16) error {
	s.mu.Lock()
	b := s.b
	s.mu.Unlock()

	if b == nil {
		return liberr.ENOTCONN.Error(nil)
	}
	b.subscribe(s, topic)
	return nil
}

func (s *memSocket) Unsubscribe(topic uint16) error {
	s.mu.Lock()
	b := s.b
	s.mu.Unlock()

	if b == nil {
		return nil
	}
	b.unsubscribe(s, topic)
	return nil
}

func (s *memSocket) Send(buf []byte) error {
	s.mu.Lock()
	b := s.b
	s.mu.Unlock()

	if b == nil {
		return liberr.ENOTCONN.Error(nil)
	}
	if len(buf) < 2 {
		return liberr.EINVAL.Error(nil)
	}

	b.publish(buf)
	return nil
}

func (s *memSocket) Recv() ([]byte, error) {
	s.mu.Lock()
	to := s.rto
	s.mu.Unlock()

	select {
	case buf := <-s.ch:
		return buf, nil
	case <-time.After(to):
		return nil, ErrTimeout
	}
}

func (s *memSocket) Close() error {
	s.mu.Lock()
	b := s.b
	s.b = nil
	s.mu.Unlock()

	if b != nil {
		b.leave(s)
	}
	return nil
}
