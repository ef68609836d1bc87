// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake returns a FakeClock initialized to the given time. Time stands
// still until Advance is called.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

// FakeClock is a deterministic Clock for testing: Sleep and After
// block until a waiting Advance call passes their deadline.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	waiters []*waiter
}

type waiter struct {
	deadline time.Time
	channel  chan time.Time
	fired    bool
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- c.current
		return ch
	}
	c.waiters = append(c.waiters, &waiter{deadline: c.current.Add(d), channel: ch})
	return ch
}

func (c *FakeClock) Sleep(d time.Duration) {
	<-c.After(d)
}

// Advance moves the fake clock forward by d, firing every waiter whose
// deadline has passed, in deadline order.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	now := c.current

	sort.Slice(c.waiters, func(i, j int) bool {
		return c.waiters[i].deadline.Before(c.waiters[j].deadline)
	})

	var remaining []*waiter
	var toFire []*waiter
	for _, w := range c.waiters {
		if !w.fired && !w.deadline.After(now) {
			w.fired = true
			toFire = append(toFire, w)
		} else if !w.fired {
			remaining = append(remaining, w)
		}
	}
	c.waiters = remaining
	c.mu.Unlock()

	for _, w := range toFire {
		w.channel <- now
	}
}

// WaitersLen reports how many timers are currently registered and
// unfired, useful for synchronizing a test with a goroutine that must
// call Sleep/After before Advance is called.
func (c *FakeClock) WaitersLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}
