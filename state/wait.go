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

package state

import (
	"context"
)

// Wait blocks the calling goroutine, which must already hold the cell
// locked via Lock, until either the cell changes (any Set) or ctx is done.
// It re-acquires the lock before returning, per sync.Cond.Wait's contract.
// It returns true if woken by a change, false if ctx expired first.
//
// Spurious wake-ups are possible; callers needing a specific value should
// use AwaitState instead of calling Wait directly.
func (c *Cell) Wait(ctx context.Context) bool {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			c.cond.Broadcast()
		case <-done:
		}
	}()

	c.cond.Wait()
	close(done)

	return ctx.Err() == nil
}

// AwaitState blocks, with the cell locked on entry and on return, until the
// cell's value equals target or ctx is done. It loops over Wait to absorb
// spurious and unrelated wake-ups. Returns true iff target was observed
// before ctx expired.
func (c *Cell) AwaitState(ctx context.Context, target int) bool {
	for c.value != target {
		if !c.Wait(ctx) {
			return c.value == target
		}
	}
	return true
}
