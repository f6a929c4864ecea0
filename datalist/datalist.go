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
	"encoding/binary"
)

// AddItem appends a new item under id. It fails if the list is already at
// MaxItems capacity, if id is already present, or if payload is nil.
func (d *DataList) AddItem(id uint16, payload []byte) error {
	if d == nil {
		return ErrInvalid.Error(nil)
	}
	if payload == nil {
		return ErrInvalid.Error(nil)
	}
	if len(d.items) >= MaxItems {
		return ErrFull.Error(nil)
	}
	for _, it := range d.items {
		if it.id == id {
			return ErrDuplicateID.Error(nil)
		}
	}

	cp := make([]byte, len(payload))
	copy(cp, payload)
	d.items = append(d.items, item{id: id, payload: cp})
	return nil
}

// GetItem returns the payload stored under id. It fails if no such item
// exists, or if expectLen does not match the stored payload's length.
func (d *DataList) GetItem(id uint16, expectLen int) ([]byte, error) {
	if d == nil {
		return nil, ErrInvalid.Error(nil)
	}
	for _, it := range d.items {
		if it.id == id {
			if len(it.payload) != expectLen {
				return nil, ErrLengthMismatch.Error(nil)
			}
			cp := make([]byte, len(it.payload))
			copy(cp, it.payload)
			return cp, nil
		}
	}
	return nil, ErrNotFound.Error(nil)
}

// Len returns the number of items currently stored.
func (d *DataList) Len() int {
	if d == nil {
		return 0
	}
	return len(d.items)
}

// ItemIDs returns the IDs of every stored item, in insertion order.
func (d *DataList) ItemIDs() []uint16 {
	if d == nil {
		return nil
	}
	ids := make([]uint16, len(d.items))
	for i, it := range d.items {
		ids[i] = it.id
	}
	return ids
}

// DataLength returns the total wire size of this list's serialization.
func (d *DataList) DataLength() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, it := range d.items {
		n += itemHeaderLen + len(it.payload)
	}
	return n
}

// Bytes serializes the list to its wire format.
func (d *DataList) Bytes() []byte {
	buf := make([]byte, d.DataLength())
	if d == nil {
		return buf
	}

	off := 0
	for _, it := range d.items {
		binary.LittleEndian.PutUint16(buf[off:], it.id)
		binary.LittleEndian.PutUint16(buf[off+2:], uint16(len(it.payload)))
		copy(buf[off+itemHeaderLen:], it.payload)
		off += itemHeaderLen + len(it.payload)
	}
	return buf
}

// Parse decodes a DataList from its wire format. Parsing proceeds greedily
// item by item; a trailing fragment shorter than itemHeaderLen is silently
// discarded, since the outer message framing already carries the total
// length. Duplicate item IDs encountered while parsing are kept in
// first-seen order and later duplicates are dropped, matching AddItem's
// uniqueness rule.
func Parse(buf []byte) (*DataList, error) {
	d := New()

	off := 0
	for off+itemHeaderLen <= len(buf) {
		id := binary.LittleEndian.Uint16(buf[off:])
		length := binary.LittleEndian.Uint16(buf[off+2:])
		off += itemHeaderLen

		if off+int(length) > len(buf) {
			break
		}
		payload := buf[off : off+int(length)]
		off += int(length)

		if len(d.items) >= MaxItems {
			continue
		}
		_ = d.AddItem(id, payload) //nolint:errcheck // duplicate IDs are dropped by design
	}

	return d, nil
}
