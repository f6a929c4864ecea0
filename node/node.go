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

package node

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/cmcp-project/cmcp/datalist"
	errpool "github.com/cmcp-project/cmcp/errors/pool"
	"github.com/cmcp-project/cmcp/logger"
	loglvl "github.com/cmcp-project/cmcp/logger/level"
	"github.com/cmcp-project/cmcp/message"
	"github.com/cmcp-project/cmcp/state"
	"github.com/cmcp-project/cmcp/transport"
)

// Node is the runtime shared by the client and server sessions: socket
// pair, node-id, reception loop, heartbeat scheduler. It is generic over a
// SessionHandler, which it borrows for its lifetime without owning.
type Node struct {
	role    Role
	dialer  transport.Dialer
	cfg     Config
	handler SessionHandler
	log     logger.Logger

	cell *state.Cell

	idMu sync.RWMutex
	id   uint16

	sockMu  sync.Mutex
	outSock transport.Socket
	inSock  transport.Socket

	hbMu          sync.Mutex
	nextHeartbeat time.Time

	doneCh chan struct{}
}

// New constructs a Node in the Uninitialized->Initialized state, with a
// freshly generated id. handler must be non-nil; its OnMessage/OnTick are
// invoked from the reception goroutine once Start runs.
func New(role Role, dialer transport.Dialer, cfg Config, handler SessionHandler, log logger.Logger) *Node {
	if log == nil {
		log = logger.New(loglvl.NilLevel)
	}
	if e := cfg.Validate(); e != nil {
		log.Error(nil, "invalid node config, falling back to defaults: "+e.Error())
	}

	n := &Node{
		role:    role,
		dialer:  dialer,
		cfg:     cfg,
		handler: handler,
		log:     log,
		cell:    state.New(Initialized),
	}
	n.id = n.GenerateID()
	return n
}

// Role reports whether this node plays the server or client half of the protocol.
func (n *Node) Role() Role { return n.role }

// ID returns the node's current own id.
func (n *Node) ID() uint16 {
	n.idMu.RLock()
	defer n.idMu.RUnlock()
	return n.id
}

// setID replaces the node's own id.
func (n *Node) setID(id uint16) {
	n.idMu.Lock()
	n.id = id
	n.idMu.Unlock()
}

// State returns the node's current lifecycle state.
func (n *Node) State() int { return n.cell.Get() }

// ownBroadcastTopic is the reserved topic all nodes of role r subscribe to,
// carrying broadcasts addressed to that role (including the opposite
// role's heartbeat).
func ownBroadcastTopic(r Role) uint16 {
	if r == Server {
		return BroadcastServer
	}
	return BroadcastClient
}

// peerBroadcastTopic is the topic a node of role r addresses its own
// heartbeat to, reaching every node of the opposite role.
func peerBroadcastTopic(r Role) uint16 {
	if r == Server {
		return BroadcastClient
	}
	return BroadcastServer
}

func heartbeatCommand(r Role) message.Command {
	if r == Server {
		return message.CmdServerHeartbeat
	}
	return message.CmdClientHeartbeat
}

// GenerateID draws a candidate node id respecting this node's role parity
// (even for Server, odd for Client) and rejects either reserved broadcast
// topic. It does not install the result; callers needing to regenerate the
// node's live id should call RegenerateID.
func (n *Node) GenerateID() uint16 {
	for i := 0; i < 1000; i++ {
		v := uint16(rand.Uint32())
		if n.role == Server {
			v &^= 1
		} else {
			v |= 1
		}
		if v != BroadcastServer && v != BroadcastClient {
			return v
		}
	}
	// Reserved topics occupy only 2 of 65536 values; this is unreachable
	// in practice and exists only to bound the loop.
	return n.GenerateID()
}

// RegenerateID installs a freshly generated id as the node's own id,
// driven exclusively by the client session on a NACK collision response.
// It re-points the inbound socket's subscription from the old id to the
// new one; a no-op on either end if the sockets are not yet attached.
func (n *Node) RegenerateID() uint16 {
	old := n.ID()
	_ = n.Unsubscribe(old)

	id := n.GenerateID()
	n.setID(id)

	_ = n.Subscribe(id)
	return id
}

// Bind takes the publishing/listening role on outAddr and subscribes the
// inbound socket on inAddr. Used by servers.
func (n *Node) Bind(outAddr, inAddr string) error {
	return n.attach(outAddr, inAddr, true)
}

// Connect takes the dialing role toward outAddr/inAddr. Used by clients.
func (n *Node) Connect(outAddr, inAddr string) error {
	return n.attach(outAddr, inAddr, false)
}

func (n *Node) attach(outAddr, inAddr string, bind bool) error {
	n.sockMu.Lock()
	defer n.sockMu.Unlock()

	if n.outSock != nil || n.inSock != nil {
		return ErrAlready.Error(nil)
	}

	out, err := n.dialer.NewSocket()
	if err != nil {
		return err
	}
	in, err := n.dialer.NewSocket()
	if err != nil {
		_ = out.Close()
		return err
	}

	if bind {
		err = out.Bind(outAddr)
	} else {
		err = out.Connect(outAddr)
	}
	if err != nil {
		_ = out.Close()
		_ = in.Close()
		return err
	}

	if bind {
		err = in.Bind(inAddr)
	} else {
		err = in.Connect(inAddr)
	}
	if err != nil {
		_ = out.Close()
		_ = in.Close()
		return err
	}

	in.SetRecvTimeout(n.cfg.heartbeatPeriod().Time())

	if err = in.Subscribe(ownBroadcastTopic(n.role)); err != nil {
		_ = out.Close()
		_ = in.Close()
		return err
	}
	if err = in.Subscribe(n.ID()); err != nil {
		_ = out.Close()
		_ = in.Close()
		return err
	}

	n.outSock = out
	n.inSock = in
	return nil
}

// Subscribe adds topic to the set of ids this node's inbound socket
// delivers, in addition to its own id and broadcast topic.
func (n *Node) Subscribe(topic uint16) error {
	n.sockMu.Lock()
	in := n.inSock
	n.sockMu.Unlock()

	if in == nil {
		return ErrNotConnected.Error(nil)
	}
	return in.Subscribe(topic)
}

// Unsubscribe removes topic from the delivered set.
func (n *Node) Unsubscribe(topic uint16) error {
	n.sockMu.Lock()
	in := n.inSock
	n.sockMu.Unlock()

	if in == nil {
		return ErrNotConnected.Error(nil)
	}
	return in.Unsubscribe(topic)
}

// Start must be called while the node is Initialized. It transitions to
// Starting, spawns the reception goroutine, and blocks until the worker
// reports Running.
func (n *Node) Start() error {
	n.cell.Lock()
	if n.cell.GetLocked() != Initialized {
		n.cell.Unlock()
		return ErrInvalidState.Error(nil)
	}
	n.cell.SetLocked(Starting)

	n.doneCh = make(chan struct{})
	go n.run()

	ctx := context.Background()
	n.cell.AwaitState(ctx, Running)
	n.cell.Unlock()
	return nil
}

// Stop must be called while the node is Running. It requests the
// reception goroutine to exit and waits for it to join; afterward the
// node is Initialized again.
func (n *Node) Stop() error {
	n.cell.Lock()
	if n.cell.GetLocked() != Running {
		n.cell.Unlock()
		return ErrInvalidState.Error(nil)
	}
	n.cell.SetLocked(Stopping)
	n.cell.Unlock()

	<-n.doneCh
	return nil
}

// Close releases both sockets. Safe to call more than once. Both closes are
// attempted even if the first fails; any failures are reported together.
func (n *Node) Close() error {
	n.sockMu.Lock()
	defer n.sockMu.Unlock()

	p := errpool.New()
	if n.outSock != nil {
		p.Add(n.outSock.Close())
		n.outSock = nil
	}
	if n.inSock != nil {
		p.Add(n.inSock.Close())
		n.inSock = nil
	}
	return p.Error()
}

// BuildAndSend constructs a message from the given fields and an optional
// data list, serializes it, and hands the buffer to the outbound socket.
// Safe to call from any goroutine once sockets are established.
func (n *Node) BuildAndSend(typ message.Type, topic uint16, cmd message.Command, dl *datalist.DataList) error {
	n.sockMu.Lock()
	out := n.outSock
	n.sockMu.Unlock()

	if out == nil {
		return ErrNotConnected.Error(nil)
	}

	m, err := message.New(typ, topic, n.ID(), cmd, dl)
	if err != nil {
		return err
	}
	buf, err := m.Bytes()
	if err != nil {
		return err
	}
	return out.Send(buf)
}

// run is the reception loop's body. It owns stepping the state cell
// through Running -> ... -> Initialized and must only be invoked by Start.
func (n *Node) run() {
	defer close(n.doneCh)

	n.cell.Set(Running)

	period := n.cfg.heartbeatPeriod().Time()
	n.hbMu.Lock()
	n.nextHeartbeat = time.Now()
	n.hbMu.Unlock()

	for n.cell.Get() == Running {
		n.tickHeartbeat(period)
		n.handler.OnTick()
		n.receiveOnce()
	}

	n.cell.Set(Initialized)
}

func (n *Node) tickHeartbeat(period time.Duration) {
	n.hbMu.Lock()
	due := !time.Now().Before(n.nextHeartbeat)
	if due {
		n.nextHeartbeat = time.Now().Add(period)
	}
	n.hbMu.Unlock()

	if !due {
		return
	}

	topic := peerBroadcastTopic(n.role)
	cmd := heartbeatCommand(n.role)
	if err := n.BuildAndSend(message.Control, topic, cmd, nil); err != nil {
		n.log.Debug(nil, "heartbeat send failed: "+err.Error())
	}
}

func (n *Node) receiveOnce() {
	n.sockMu.Lock()
	in := n.inSock
	n.sockMu.Unlock()

	if in == nil {
		return
	}

	buf, err := in.Recv()
	if err != nil {
		return
	}

	msg, err := message.Parse(buf)
	if err != nil {
		n.log.Debug(nil, "dropped unparseable frame: "+err.Error())
		return
	}

	if msg.SenderID() == BroadcastServer || msg.SenderID() == BroadcastClient {
		n.log.Debug(nil, "dropped frame with broadcast sender id")
		return
	}

	n.handler.OnMessage(msg)
}
