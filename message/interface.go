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

// Package message implements CMCP's framed envelope: a 6-byte header
// (topic id, sender id, wire command id) optionally followed by a
// datalist. The wire command id packs a 15-bit application command and a
// 1-bit type flag (control vs. data) into its low bit.
package message

import (
	"github.com/cmcp-project/cmcp/datalist"
)

// HeaderLen is the fixed byte size of a message header.
const HeaderLen = 6

// MaxCommand is one past the largest command value the type flag leaves room
// for; New rejects cmd >= MaxCommand.
const MaxCommand = 1 << 15

// Type distinguishes CMCP's own protocol traffic from user payloads.
type Type uint8

const (
	// Control messages are CMCP protocol traffic: heartbeats, announce,
	// ack/nack, disconnect.
	Control Type = 0
	// Data messages carry user-defined payload.
	Data Type = 1
)

// Command is a 15-bit application or protocol command identifier.
type Command uint16

// The fixed protocol commands used internally by the node runtime and the
// client/server sessions. Application commands are any other Command value
// chosen by the caller.
const (
	CmdServerHeartbeat Command = iota
	CmdClientHeartbeat
	CmdClientAnnounce
	CmdServerAckClient
	CmdServerNackClient
	CmdClientDisconnect
)

// NonceItemID is the data-list item ID carrying the 64-bit announce nonce
// on CmdClientAnnounce, CmdServerAckClient, and CmdServerNackClient.
const NonceItemID = 0

// Message is a parsed or constructed CMCP frame. A message built by New
// references the caller-provided DataList and is serialized via Bytes; a
// message returned by Parse is immutable, owns its DataList, and cannot be
// re-serialized via Bytes.
type Message struct {
	typ      Type
	topic    uint16
	sender   uint16
	command  Command
	data     *datalist.DataList
	parsed   bool
}

// Type reports whether this is a control or data message.
func (m *Message) Type() Type { return m.typ }

// TopicID returns the intended recipient's node ID, or a broadcast topic.
func (m *Message) TopicID() uint16 { return m.topic }

// SenderID returns the originator's node ID.
func (m *Message) SenderID() uint16 { return m.sender }

// CommandID returns the application-level command, already shifted past
// the type-flag bit.
func (m *Message) CommandID() Command { return m.command }

// DataList returns the message's data list, or nil if it carries none.
func (m *Message) DataList() *datalist.DataList { return m.data }
