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
	liberr "github.com/cmcp-project/cmcp/errors"
)

const (
	// ErrAlready is returned by Bind/Connect when the node's sockets are
	// already attached.
	ErrAlready liberr.CodeError = liberr.MinPkgNode + iota
	// ErrNotConnected is returned when an operation requires sockets that
	// have not been established yet.
	ErrNotConnected
	// ErrInvalidState is returned when an operation is attempted from a
	// lifecycle state that does not permit it (e.g. Stop while not Running).
	ErrInvalidState
	// ErrIDSpace names the failure to find a node id outside the reserved
	// broadcast topics. GenerateID retries until it finds one and does not
	// return this code.
	ErrIDSpace
	// ErrInvalidConfig is returned by Config.Validate when a field fails its
	// validation constraint.
	ErrInvalidConfig
)

func init() {
	liberr.RegisterIdFctMessage(ErrAlready, func(code liberr.CodeError) string {
		switch code {
		case ErrAlready:
			return "node already in requested state"
		case ErrNotConnected:
			return "node sockets not established"
		case ErrInvalidState:
			return "operation invalid in current node state"
		case ErrIDSpace:
			return "unable to generate a valid node id"
		case ErrInvalidConfig:
			return "invalid node configuration"
		}
		return liberr.UnknownMessage
	})
}
