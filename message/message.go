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
	"encoding/binary"

	"github.com/cmcp-project/cmcp/datalist"
)

// New builds a send-mode message. cmd must be below MaxCommand. data may be
// nil for a header-only message; the returned Message only references data,
// it does not take ownership, and cannot be re-serialized after a round
// trip through Parse.
func New(typ Type, topic, sender uint16, cmd Command, data *datalist.DataList) (*Message, error) {
	if cmd >= MaxCommand {
		return nil, ErrInvalidCommand.Error(nil)
	}

	return &Message{
		typ:     typ,
		topic:   topic,
		sender:  sender,
		command: cmd,
		data:    data,
	}, nil
}

// DataLength returns the total wire size this message would serialize to.
func (m *Message) DataLength() int {
	n := HeaderLen
	if m.data != nil {
		n += m.data.DataLength()
	}
	return n
}

// Bytes serializes a send-mode message to its wire format. It fails on a
// message obtained from Parse, since parsed messages are not
// re-serializable per the asymmetric-mode rule.
func (m *Message) Bytes() ([]byte, error) {
	if m.parsed {
		return nil, ErrNotSerializable.Error(nil)
	}

	buf := make([]byte, m.DataLength())
	binary.LittleEndian.PutUint16(buf[0:], m.topic)
	binary.LittleEndian.PutUint16(buf[2:], m.sender)
	binary.LittleEndian.PutUint16(buf[4:], wireCommand(m.typ, m.command))

	if m.data != nil {
		copy(buf[HeaderLen:], m.data.Bytes())
	}
	return buf, nil
}

// wireCommand packs a 15-bit command and a 1-bit type flag into one
// 16-bit wire value: command in the high bits, type in the low bit.
func wireCommand(typ Type, cmd Command) uint16 {
	return (uint16(cmd) << 1) | uint16(typ&1)
}

// Parse decodes a message from its wire format. It fails if buf is shorter
// than HeaderLen, or if the embedded data list fails to parse. The
// returned Message is immutable and owns the DataList it produced.
func Parse(buf []byte) (*Message, error) {
	if len(buf) < HeaderLen {
		return nil, ErrShortBuffer.Error(nil)
	}

	topic := binary.LittleEndian.Uint16(buf[0:])
	sender := binary.LittleEndian.Uint16(buf[2:])
	wire := binary.LittleEndian.Uint16(buf[4:])

	dl, err := datalist.Parse(buf[HeaderLen:])
	if err != nil {
		return nil, ErrDataList.Error(err)
	}

	return &Message{
		typ:     Type(wire & 1),
		topic:   topic,
		sender:  sender,
		command: Command(wire >> 1),
		data:    dl,
		parsed:  true,
	}, nil
}
