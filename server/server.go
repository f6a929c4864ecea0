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

package server

import (
	"time"

	"github.com/cmcp-project/cmcp/datalist"
	"github.com/cmcp-project/cmcp/message"
	"github.com/cmcp-project/cmcp/node"
)

// Bind takes the listening role on outAddr/inAddr and starts the reception
// loop. It blocks until the node reports Running.
func (s *Server) Bind(outAddr, inAddr string) error {
	if err := s.n.Bind(outAddr, inAddr); err != nil {
		return err
	}
	return s.n.Start()
}

// Send transmits a data message to a registered client. It fails with
// ErrUnknownPeer if clientID holds no peer entry.
func (s *Server) Send(clientID uint16, cmd message.Command, dl *datalist.DataList) error {
	if !s.IsRegistered(clientID) {
		return ErrUnknownPeer.Error(nil)
	}
	return s.n.BuildAndSend(message.Data, clientID, cmd, dl)
}

// Close stops the reception loop (if running) and releases the node's
// sockets. Safe to call more than once.
func (s *Server) Close() error {
	if s.n.State() == node.Running {
		_ = s.n.Stop()
	}
	return s.n.Close()
}

// OnMessage implements node.SessionHandler. It runs on the reception
// goroutine. Messages from a sender whose id is not odd are dropped; this
// session only talks to clients.
func (s *Server) OnMessage(msg *message.Message) {
	if msg.SenderID()&1 == 0 {
		return
	}

	if msg.Type() == message.Control {
		s.handleControl(msg)
		return
	}

	p, registered := s.peers.Load(msg.SenderID())
	if registered {
		p.deadline.Store(time.Now().Add(s.cfg.connectionTimeout()))
	}

	s.mu.Lock()
	cb := s.onMessage
	cbParam := s.cbParam
	s.mu.Unlock()

	if registered && cb != nil {
		cb(cbParam, msg.SenderID(), msg.CommandID(), msg.DataList())
	}
}

func (s *Server) handleControl(msg *message.Message) {
	switch msg.CommandID() {
	case message.CmdClientHeartbeat:
		if p, ok := s.peers.Load(msg.SenderID()); ok {
			p.deadline.Store(time.Now().Add(s.cfg.connectionTimeout()))
		}

	case message.CmdClientAnnounce:
		s.handleAnnounce(msg)

	case message.CmdClientDisconnect:
		s.deregister(msg.SenderID(), true)
	}
}

// handleAnnounce runs the admission gate for a newly announcing client and
// replies with an ACK or NACK carrying the same nonce the client sent, so
// the client can match the reply to its handshake attempt. An already-
// registered client ID is rejected without revoking its existing
// registration; a caller relying on re-announcement must disconnect first.
func (s *Server) handleAnnounce(msg *message.Message) {
	clientID := msg.SenderID()

	_, already := s.peers.Load(clientID)
	full := s.PeerCount() >= MaxPeers

	s.mu.Lock()
	gate := s.onAnnounce
	cbParam := s.cbParam
	s.mu.Unlock()

	admit := !already && !full && gate != nil && gate(cbParam, clientID)

	if admit {
		deadline := time.Now().Add(s.cfg.connectionTimeout())
		s.peers.Store(clientID, newPeerEntry(clientID, deadline))
		_ = s.n.Subscribe(clientID)
	}

	reply := message.CmdServerNackClient
	if admit {
		reply = message.CmdServerAckClient
	}

	dl := datalist.New()
	if nonce, err := msg.DataList().GetItem(message.NonceItemID, 8); err == nil {
		_ = dl.AddItem(message.NonceItemID, nonce)
	}
	_ = s.n.BuildAndSend(message.Control, clientID, reply, dl)
}

// deregister removes clientID from the registry, unsubscribes it from the
// inbound socket, and, if notify is set and the peer was present, invokes
// the disconnect callback.
func (s *Server) deregister(clientID uint16, notify bool) {
	_, ok := s.peers.LoadAndDelete(clientID)
	if ok {
		_ = s.n.Unsubscribe(clientID)
	}

	s.mu.Lock()
	cb := s.onDisc
	cbParam := s.cbParam
	s.mu.Unlock()

	if ok && notify && cb != nil {
		cb(cbParam, clientID)
	}
}

// OnTick implements node.SessionHandler: scans the registry for peers whose
// deadline has passed and deregisters them, invoking the disconnect
// callback for each.
func (s *Server) OnTick() {
	now := time.Now()

	var expired []uint16
	s.peers.Range(func(id uint16, p *peerEntry) bool {
		if now.After(p.deadline.Load()) {
			expired = append(expired, id)
		}
		return true
	})

	for _, id := range expired {
		s.deregister(id, true)
	}
}
