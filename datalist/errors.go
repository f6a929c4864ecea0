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

package datalist

import (
	liberr "github.com/cmcp-project/cmcp/errors"
)

const (
	// ErrFull is returned by AddItem once the list already holds MaxItems entries.
	ErrFull liberr.CodeError = liberr.MinPkgDatalist + iota
	// ErrDuplicateID is returned by AddItem when the item ID is already present.
	ErrDuplicateID
	// ErrInvalid is returned for nil payloads or malformed lookups.
	ErrInvalid
	// ErrNotFound is returned by GetItem when no item carries the requested ID.
	ErrNotFound
	// ErrLengthMismatch is returned by GetItem when the stored item's length
	// does not match the caller's expected length.
	ErrLengthMismatch
)

func init() {
	liberr.RegisterIdFctMessage(ErrFull, func(code liberr.CodeError) string {
		switch code {
		case ErrFull:
			return "data list is at capacity"
		case ErrDuplicateID:
			return "item id already present in data list"
		case ErrInvalid:
			return "invalid data list item"
		case ErrNotFound:
			return "item id not found in data list"
		case ErrLengthMismatch:
			return "item length does not match expected length"
		}
		return liberr.UnknownMessage
	})
}
