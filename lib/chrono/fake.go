package chrono

import (
	"context"
	"sync"
	"time"
)

// FakeImpl is a manually driven clock, Sleep advances it instead of blocking.
type FakeImpl struct {
	mu       sync.Mutex
	now      time.Time
	location *time.Location
	sleeps   int
}

func NewFakeImpl(start time.Time) *FakeImpl {
	return &FakeImpl{now: start, location: start.Location()}
}

func (f *FakeImpl) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *FakeImpl) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.Advance(d)
	f.mu.Lock()
	f.sleeps++
	f.mu.Unlock()
	return nil
}

func (f *FakeImpl) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// Sleeps returns how many times Sleep has been called.
func (f *FakeImpl) Sleeps() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sleeps
}

func (f *FakeImpl) Location() *time.Location {
	return f.location
}
