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

// Package transport is the pub/sub byte pipe the CMCP node runtime is built
// on: bind/connect a socket, subscribe it to topic prefixes, push and pull
// raw frames. CMCP treats it as an opaque external collaborator (its own
// framing lives one layer up, in message and datalist) and ships exactly one
// concrete implementation, backed by NATS core pub/sub, so the rest of the
// module has something real to dial in tests and examples.
package transport

import (
	"time"

	liberr "github.com/cmcp-project/cmcp/errors"
)

// ErrTimeout is returned by Recv when no frame arrived within the configured
// receive timeout. The node reception loop treats it as a normal, silent
// wake-up rather than a failure.
var ErrTimeout error = ErrBroker.Error(nil)

// Socket is a single directional leg of a pub/sub pair: a node owns one for
// outbound sends and one for inbound receives, per §6 of the protocol.
type Socket interface {
	// Bind takes the listening/publishing role at addr. Used by servers.
	Bind(addr string) error
	// Connect takes the dialing/subscribing role toward addr. Used by clients.
	Connect(addr string) error

	// SetRecvTimeout bounds how long Recv blocks before returning ErrTimeout.
	SetRecvTimeout(d time.Duration)

	// Subscribe adds topic to the set of topic IDs this socket delivers.
	// topic is matched against the first two bytes of every inbound frame.
	Subscribe(topic uint16) error
	// Unsubscribe removes topic from the delivered set.
	Unsubscribe(topic uint16) error

	// Send transfers ownership of buf to the transport. The caller must not
	// reuse buf after Send returns, win or lose.
	Send(buf []byte) error
	// Recv blocks for up to the configured receive timeout and returns the
	// next frame whose topic prefix matches a subscribed topic.
	Recv() ([]byte, error)

	// Close releases the socket. Safe to call more than once.
	Close() error
}

// Dialer constructs the two sockets (outbound, inbound) a node needs. It is
// the seam the node runtime depends on instead of a concrete transport, so
// tests can substitute an in-memory pair.
type Dialer interface {
	NewSocket() (Socket, error)
}
