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

// Package client implements the CMCP client session: the handshake state
// machine (Disconnected -> TryingToConnect -> HeartbeatReceived ->
// Connected -> Disconnected), nonce matching, and timeout detection, built
// on top of the node runtime.
package client

import (
	"fmt"
	"sync"
	"time"

	libval "github.com/go-playground/validator/v10"

	"github.com/cmcp-project/cmcp/datalist"
	"github.com/cmcp-project/cmcp/duration"
	liberr "github.com/cmcp-project/cmcp/errors"
	"github.com/cmcp-project/cmcp/logger"
	"github.com/cmcp-project/cmcp/message"
	"github.com/cmcp-project/cmcp/node"
	"github.com/cmcp-project/cmcp/state"
	"github.com/cmcp-project/cmcp/transport"
)

// FSM states of a client session.
const (
	Disconnected = iota
	TryingToConnect
	HeartbeatReceived
	Connected
)

// Config carries the client session's tunables.
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

// MessageCallback receives a data message addressed to this client.
type MessageCallback func(ctx any, cmd message.Command, dl *datalist.DataList)

// Client is one CMCP client session.
type Client struct {
	n   *node.Node
	fsm *state.Cell

	cfg Config

	mu          sync.Mutex
	serverID    uint16
	haveServer  bool
	nonce       uint64
	deadline    time.Time
	cbParam     any
	onMessage   MessageCallback
	// OnDisconnect, if set, is invoked exactly once per Connected ->
	// Disconnected timeout transition. It is an API extension point; no
	// automatic reconnect is performed.
	OnDisconnect func()
}

// NewClient constructs a client session with a freshly generated odd node
// id. dialer backs the transport sockets Connect will establish.
func NewClient(dialer transport.Dialer, cfg Config, log logger.Logger) *Client {
	if e := cfg.Validate(); e != nil && log != nil {
		log.Error(nil, "invalid client config, falling back to defaults: "+e.Error())
	}

	c := &Client{
		cfg: cfg,
		fsm: state.New(Disconnected),
	}
	c.n = node.New(node.Client, dialer, node.Config{
		HeartbeatPeriod:   cfg.HeartbeatPeriod,
		ConnectionTimeout: cfg.ConnectionTimeout,
	}, c, log)
	return c
}

// ID returns the client's own node id.
func (c *Client) ID() uint16 { return c.n.ID() }

// State returns the client session's current FSM state.
func (c *Client) State() int { return c.fsm.Get() }

// SetCallbackParam installs the opaque context value passed to the
// message callback.
func (c *Client) SetCallbackParam(ctx any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cbParam = ctx
}

// SetMessageCallback installs the callback invoked for inbound data
// messages addressed to this client.
func (c *Client) SetMessageCallback(fn MessageCallback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMessage = fn
}
