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
	liberr "github.com/cmcp-project/cmcp/errors"
)

const (
	// ErrRegistryFull names the registry-at-capacity condition. No error is
	// built from it: handleAnnounce answers the peer with a NACK instead.
	ErrRegistryFull liberr.CodeError = liberr.MinPkgServer + iota
	// ErrUnknownPeer is returned by Send when addressed to an unregistered client.
	ErrUnknownPeer
	// ErrInvalidConfig is returned by Config.Validate when a field fails
	// its validation constraint.
	ErrInvalidConfig
)

func init() {
	liberr.RegisterIdFctMessage(ErrRegistryFull, func(code liberr.CodeError) string {
		switch code {
		case ErrRegistryFull:
			return "peer registry at capacity"
		case ErrUnknownPeer:
			return "client id not registered"
		case ErrInvalidConfig:
			return "invalid server configuration"
		}
		return liberr.UnknownMessage
	})
}
