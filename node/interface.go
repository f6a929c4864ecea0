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

// Package node implements the CMCP node runtime: socket lifecycle, node-id
// generation, the reception loop and heartbeat scheduler, and the
// thread-safe build-and-send API that the client and server sessions are
// built on top of.
package node

import (
	"fmt"

	libval "github.com/go-playground/validator/v10"

	"github.com/cmcp-project/cmcp/duration"
	liberr "github.com/cmcp-project/cmcp/errors"
	"github.com/cmcp-project/cmcp/message"
)

// Role identifies whether a node plays the server or client half of the
// protocol, which determines its node-id parity and which broadcast topic
// it publishes heartbeats to.
type Role uint8

const (
	Server Role = iota
	Client
)

// Reserved broadcast topics. No node's own id may equal either.
const (
	BroadcastServer uint16 = 0x0000
	BroadcastClient uint16 = 0xFFFF
)

// Lifecycle states of a Node, held in its state.Cell.
const (
	Uninitialized = iota
	Initialized
	Starting
	Running
	Stopping
)

// Default tunables, used when a Config field's zero value is left in place.
const (
	DefaultHeartbeatPeriod   duration.Duration = 500_000_000    // 500ms
	DefaultConnectionTimeout duration.Duration = 10_000_000_000 // 10s
)

// Config carries the tunables a Node is built with. Zero-value fields fall
// back to the package defaults: a 500ms heartbeat and a 10s connection
// timeout.
type Config struct {
	HeartbeatPeriod   duration.Duration `yaml:"heartbeat_period" json:"heartbeat_period" validate:"gte=0"`
	ConnectionTimeout duration.Duration `yaml:"connection_timeout" json:"connection_timeout" validate:"gte=0"`
}

// heartbeatPeriod resolves the effective heartbeat period.
func (c Config) heartbeatPeriod() duration.Duration {
	if c.HeartbeatPeriod <= 0 {
		return DefaultHeartbeatPeriod
	}
	return c.HeartbeatPeriod
}

// connectionTimeout resolves the effective connection timeout.
func (c Config) connectionTimeout() duration.Duration {
	if c.ConnectionTimeout <= 0 {
		return DefaultConnectionTimeout
	}
	return c.ConnectionTimeout
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

// SessionHandler is implemented by the client and server sessions built on
// top of a Node. The node runtime is generic over this interface rather
// than function pointers; it borrows the handler for the node's lifetime
// without owning it.
type SessionHandler interface {
	// OnMessage is invoked on the reception goroutine for every inbound
	// frame that parses successfully and whose sender is not a broadcast
	// topic.
	OnMessage(msg *message.Message)
	// OnTick is invoked once per reception-loop iteration, after the
	// heartbeat check, for periodic bookkeeping (timeout scanning,
	// reconnect logic).
	OnTick()
}
