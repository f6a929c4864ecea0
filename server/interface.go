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

// Package server implements the CMCP server session: a bounded peer
// registry, the announcement admission gate, per-peer timeout tracking,
// and application message/disconnect dispatch, built on top of the node
// runtime.
package server

import (
	"fmt"
	"sync"
	"time"

	libval "github.com/go-playground/validator/v10"

	"github.com/cmcp-project/cmcp/atomic"
	"github.com/cmcp-project/cmcp/datalist"
	"github.com/cmcp-project/cmcp/duration"
	liberr "github.com/cmcp-project/cmcp/errors"
	"github.com/cmcp-project/cmcp/logger"
	"github.com/cmcp-project/cmcp/message"
	"github.com/cmcp-project/cmcp/node"
	"github.com/cmcp-project/cmcp/transport"
)

// MaxPeers bounds the number of simultaneously registered clients.
const MaxPeers = 16

// Config carries the server session's tunables.
type Config struct {
	HeartbeatPeriod   duration.Duration `yaml:"heartbeat_period" json:"heartbeat_period" validate:"gte=0"`
	ConnectionTimeout duration.Duration `yaml:"connection_timeout" json:"connection_timeout" validate:"gte=0"`
}

func (c Config) connectionTimeout() time.Duration {
	if c.ConnectionTimeout <= 0 {
		return node.DefaultConnectionTimeout.Time()
	}
	return c.ConnectionTimeout.Time()
}

// Validate runs the struct validation tags on c and returns a liberr.Error
// describing every failing field, or nil if c is valid.
func (c Config) Validate() liberr.Error {
	err := ErrInvalidConfig.Error(nil)

	if e := libval.New().Struct(c); e != nil {
		if iv, ok := e.(*libval.InvalidValidationError); ok {
			err.Add(iv)
		}
		for _, fe := range e.(libval.ValidationErrors) {
			err.Add(fmt.Errorf("config field '%s' is not validated by constraint '%s'", fe.StructNamespace(), fe.ActualTag()))
		}
	}

	if err.HasParent() {
		return err
	}
	return nil
}

// AnnouncementCallback is the admission gate for a newly announcing
// client: return true to admit, false to reject. If unset, every client
// is rejected.
type AnnouncementCallback func(ctx any, clientID uint16) bool

// DisconnectCallback is invoked once a registered client is deregistered,
// whether by explicit disconnect or by timeout.
type DisconnectCallback func(ctx any, clientID uint16)

// MessageCallback receives a data message addressed to the server or the
// client-broadcast topic from a registered client.
type MessageCallback func(ctx any, clientID uint16, cmd message.Command, dl *datalist.DataList)

// peerEntry tracks one registered client. deadline is touched by the
// heartbeat/data refresh and by the expiry scan in OnTick, both of which run
// on the node's reception goroutine; it lives in an atomic.Value rather than
// behind a registry lock.
type peerEntry struct {
	id       uint16
	deadline atomic.Value[time.Time]
}

func newPeerEntry(id uint16, deadline time.Time) *peerEntry {
	p := &peerEntry{id: id, deadline: atomic.NewValue[time.Time]()}
	p.deadline.Store(deadline)
	return p
}

// Server is one CMCP server session.
type Server struct {
	n *node.Node

	cfg Config

	peers atomic.MapTyped[uint16, *peerEntry]

	mu         sync.Mutex
	cbParam    any
	onAnnounce AnnouncementCallback
	onDisc     DisconnectCallback
	onMessage  MessageCallback
}

// NewServer constructs a server session with a freshly generated even
// node id and an empty peer registry.
func NewServer(dialer transport.Dialer, cfg Config, log logger.Logger) *Server {
	if e := cfg.Validate(); e != nil && log != nil {
		log.Error(nil, "invalid server config, falling back to defaults: "+e.Error())
	}

	s := &Server{
		cfg:   cfg,
		peers: atomic.NewMapTyped[uint16, *peerEntry](),
	}
	s.n = node.New(node.Server, dialer, node.Config{
		HeartbeatPeriod:   cfg.HeartbeatPeriod,
		ConnectionTimeout: cfg.ConnectionTimeout,
	}, s, log)
	return s
}

// ID returns the server's own node id.
func (s *Server) ID() uint16 { return s.n.ID() }

// PeerCount returns the number of currently registered clients.
func (s *Server) PeerCount() int {
	n := 0
	s.peers.Range(func(uint16, *peerEntry) bool {
		n++
		return true
	})
	return n
}

// IsRegistered reports whether clientID currently holds a peer entry.
func (s *Server) IsRegistered(clientID uint16) bool {
	_, ok := s.peers.Load(clientID)
	return ok
}

// SetCallbackParam installs the opaque context value passed to every
// configured callback.
func (s *Server) SetCallbackParam(ctx any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cbParam = ctx
}

// SetAnnouncementCallback installs the admission gate.
func (s *Server) SetAnnouncementCallback(fn AnnouncementCallback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAnnounce = fn
}

// SetDisconnectCallback installs the deregistration notification.
func (s *Server) SetDisconnectCallback(fn DisconnectCallback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDisc = fn
}

// SetMessageCallback installs the application data-message callback.
func (s *Server) SetMessageCallback(fn MessageCallback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onMessage = fn
}
