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

// Package state implements the synchronized state cell shared between a
// node's reception goroutine and the API goroutines that call it: a plain
// integer guarded by a mutex, with every Set broadcasting to any goroutine
// blocked in Wait or AwaitState. The cell holds no other memory, so it is
// safe to discard once no goroutine is inside Wait.
package state

import (
	"context"
	"sync"
)

// Cell is a mutable integer coordinated across goroutines. The zero value
// is not usable; construct with New.
type Cell struct {
	mu    sync.Mutex
	cond  *sync.Cond
	value int
}

// New returns a Cell initialized to v.
func New(v int) *Cell {
	c := &Cell{value: v}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Get returns the current value. Do not call while already holding Lock;
// use GetLocked instead.
func (c *Cell) Get() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Set assigns v and wakes every goroutine blocked in Wait or AwaitState,
// even if v equals the previous value: every Set is a wake-up. Do not call
// while already holding Lock; use SetLocked instead.
func (c *Cell) Set(v int) {
	c.mu.Lock()
	c.value = v
	c.mu.Unlock()
	c.cond.Broadcast()
}

// Lock acquires the cell's mutex for callers that need to check the value
// and then Wait atomically, or that need to read/assign via GetLocked/
// SetLocked without releasing the mutex in between.
func (c *Cell) Lock() { c.mu.Lock() }

// Unlock releases the cell's mutex.
func (c *Cell) Unlock() { c.mu.Unlock() }

// GetLocked returns the current value. The caller must already hold Lock.
func (c *Cell) GetLocked() int {
	return c.value
}

// SetLocked assigns v and wakes every goroutine blocked in Wait or
// AwaitState. The caller must already hold Lock.
func (c *Cell) SetLocked(v int) {
	c.value = v
	c.cond.Broadcast()
}
