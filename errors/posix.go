/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package errors

// CMCP reuses the package's HTTP-style CodeError registry for the
// POSIX-flavored errno taxonomy the protocol core is specified against
// (programmer error, already-connected, not-connected, timeout, no-memory,
// interrupted). The transport sockets return these codes directly. The node,
// client and server packages return their own CodeError values, registered
// above their MinPkg* floors, without one of these as a parent, so
// HasCode(EINVAL) etc. match only errors raised by the transport.
const (
	EINVAL  CodeError = MinAvailable + iota // invalid argument / wrong state for the call
	EALREADY                                // operation already performed (bind/connect called twice)
	ENOTCONN                                // send before connected, or connect timed out
	ETIMEDOUT                               // a bounded wait on the state cell elapsed
	ENOMEM                                  // allocation failure in the transport layer
	EINTR                                   // operation interrupted before completion
)

func init() {
	RegisterIdFctMessage(EINVAL, func(code CodeError) string {
		switch code {
		case EINVAL:
			return "invalid argument"
		case EALREADY:
			return "operation already in progress or completed"
		case ENOTCONN:
			return "not connected"
		case ETIMEDOUT:
			return "timed out"
		case ENOMEM:
			return "out of memory"
		case EINTR:
			return "interrupted"
		}
		return UnknownMessage
	})
}
