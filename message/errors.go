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

package message

import (
	liberr "github.com/cmcp-project/cmcp/errors"
)

const (
	// ErrShortBuffer is returned by Parse when buf is shorter than HeaderLen.
	ErrShortBuffer liberr.CodeError = liberr.MinPkgMessage + iota
	// ErrInvalidCommand is returned by New when cmd is >= 2^15.
	ErrInvalidCommand
	// ErrDataList wraps a failure parsing the embedded data list.
	ErrDataList
	// ErrNotSerializable is returned by Bytes on a parsed (not constructed) message.
	ErrNotSerializable
)

func init() {
	liberr.RegisterIdFctMessage(ErrShortBuffer, func(code liberr.CodeError) string {
		switch code {
		case ErrShortBuffer:
			return "buffer shorter than message header"
		case ErrInvalidCommand:
			return "command id out of range"
		case ErrDataList:
			return "failed to parse embedded data list"
		case ErrNotSerializable:
			return "parsed message cannot be re-serialized"
		}
		return liberr.UnknownMessage
	})
}
