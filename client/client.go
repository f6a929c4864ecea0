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

package client

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/cmcp-project/cmcp/datalist"
	"github.com/cmcp-project/cmcp/message"
	"github.com/cmcp-project/cmcp/node"
)

// Connect wires the node's sockets toward pubAddr/subAddr, starts the
// reception loop, then blocks until the handshake reaches Connected or the
// connection timeout elapses. A NACK during the handshake regenerates the
// node's id and drops the session back to Disconnected; this loop re-arms
// TryingToConnect so the next server heartbeat restarts the handshake
// under the same overall deadline, rather than giving up on the first
// rejection.
func (c *Client) Connect(pubAddr, subAddr string) error {
	if err := c.n.Connect(pubAddr, subAddr); err != nil {
		return err
	}
	if err := c.n.Start(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.connectionTimeout())
	defer cancel()

	c.fsm.Lock()
	defer c.fsm.Unlock()

	for c.fsm.GetLocked() != Connected {
		if c.fsm.GetLocked() == Disconnected {
			c.fsm.SetLocked(TryingToConnect)
		}
		if !c.fsm.Wait(ctx) {
			break
		}
	}

	if c.fsm.GetLocked() != Connected {
		return ErrNotConnected.Error(nil)
	}
	return nil
}

// Send transmits a data message carrying cmd/dl to the bound server. It
// fails with ErrNotConnected unless the session is currently Connected.
func (c *Client) Send(cmd message.Command, dl *datalist.DataList) error {
	if c.fsm.Get() != Connected {
		return ErrNotConnected.Error(nil)
	}
	return c.n.BuildAndSend(message.Data, c.ID(), cmd, dl)
}

// Close disconnects from the server (if connected), stops the reception
// loop, and releases the node's sockets. Safe to call more than once.
func (c *Client) Close() error {
	if c.fsm.Get() == Connected {
		c.mu.Lock()
		server := c.serverID
		c.mu.Unlock()
		_ = c.n.BuildAndSend(message.Control, server, message.CmdClientDisconnect, nil)
	}

	if c.n.State() == node.Running {
		_ = c.n.Stop()
	}
	return c.n.Close()
}

// OnMessage implements node.SessionHandler. It runs on the reception
// goroutine.
func (c *Client) OnMessage(msg *message.Message) {
	if msg.SenderID()&1 != 0 {
		// Sender is not a server (odd id); this session only talks to servers.
		return
	}

	c.mu.Lock()
	isServer := c.haveServer && msg.SenderID() == c.serverID
	if isServer && c.fsm.Get() == Connected {
		c.deadline = time.Now().Add(c.cfg.connectionTimeout())
	}
	cb := c.onMessage
	cbParam := c.cbParam
	c.mu.Unlock()

	if msg.Type() == message.Control {
		c.handleControl(msg)
		return
	}

	if msg.TopicID() == c.ID() && cb != nil {
		cb(cbParam, msg.CommandID(), msg.DataList())
	}
}

func (c *Client) handleControl(msg *message.Message) {
	switch c.fsm.Get() {
	case TryingToConnect:
		if msg.CommandID() != message.CmdServerHeartbeat {
			return
		}
		c.mu.Lock()
		c.serverID = msg.SenderID()
		c.haveServer = true
		nonce := rand.Uint64()
		c.nonce = nonce
		c.mu.Unlock()

		c.fsm.Set(HeartbeatReceived)

		dl := datalist.New()
		nb := make([]byte, 8)
		putUint64(nb, nonce)
		_ = dl.AddItem(message.NonceItemID, nb)
		_ = c.n.BuildAndSend(message.Control, msg.SenderID(), message.CmdClientAnnounce, dl)

	case HeartbeatReceived:
		if msg.CommandID() != message.CmdServerAckClient && msg.CommandID() != message.CmdServerNackClient {
			return
		}
		c.mu.Lock()
		sameServer := c.haveServer && msg.SenderID() == c.serverID
		expected := c.nonce
		c.mu.Unlock()
		if !sameServer {
			return
		}

		nb, err := msg.DataList().GetItem(message.NonceItemID, 8)
		if err != nil || getUint64(nb) != expected {
			return
		}

		if msg.CommandID() == message.CmdServerAckClient {
			c.mu.Lock()
			c.deadline = time.Now().Add(c.cfg.connectionTimeout())
			c.mu.Unlock()
			c.fsm.Set(Connected)
		} else {
			c.fsm.Set(Disconnected)
			c.n.RegenerateID()
		}
	}
}

// OnTick implements node.SessionHandler: expires a Connected session whose
// deadline has passed. No automatic reconnect is performed.
func (c *Client) OnTick() {
	if c.fsm.Get() != Connected {
		return
	}

	c.mu.Lock()
	expired := time.Now().After(c.deadline)
	cb := c.OnDisconnect
	c.mu.Unlock()

	if expired {
		c.fsm.Set(Disconnected)
		if cb != nil {
			cb()
		}
	}
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func getUint64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8 && i < len(b); i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}
