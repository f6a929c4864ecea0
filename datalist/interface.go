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

// Package datalist implements the wire format for an ordered collection of
// up to 16 uniquely-identified byte items, used by message to carry both
// protocol parameters (announce nonce, ack/nack nonce) and user payloads.
//
// Wire format is the concatenation of items, each item laid out as
// [item_id:2][length:2][payload:length], little-endian, with no overall
// count prefix; the caller's outer framing (message) already knows the
// total byte length.
package datalist

// MaxItems bounds the number of distinct item IDs one DataList may hold.
const MaxItems = 16

// itemHeaderLen is the size in bytes of one item's [item_id][length] prefix.
const itemHeaderLen = 4

// item is one entry of a DataList: a unique 16-bit ID and its payload.
type item struct {
	id      uint16
	payload []byte
}

// DataList is an ordered collection of uniquely-identified byte items.
// The zero value is not usable; construct with New or Parse.
type DataList struct {
	items []item
}

// New returns an empty, ready-to-use DataList.
func New() *DataList {
	return &DataList{items: make([]item, 0, MaxItems)}
}
