package engine

import (
	"slices"
	"sync"
	"time"
)

// FrameID identifies one pending frame request
type FrameID uint64

// FrameFunc is invoked once with the frame timestamp
type FrameFunc func(now time.Time)

// Scheduler is a one-shot frame callback host in the manner of requestAnimationFrame
// Each request runs at most once; a cancelled request never runs
type Scheduler interface {
	RequestFrame(fn FrameFunc) FrameID
	CancelFrame(id FrameID)
}

type pendingFrame struct {
	id FrameID
	fn FrameFunc
}

// ManualScheduler queues requests until RunFrame pumps them
// Requests made while a batch runs wait for the next RunFrame
type ManualScheduler struct {
	mu       sync.Mutex
	next     FrameID
	queue    []pendingFrame
	inflight map[FrameID]struct{}
	requests uint64
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{inflight: make(map[FrameID]struct{})}
}

func (s *ManualScheduler) RequestFrame(fn FrameFunc) FrameID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.requests++
	s.queue = append(s.queue, pendingFrame{id: s.next, fn: fn})
	return s.next
}

func (s *ManualScheduler) CancelFrame(id FrameID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, id)
	s.queue = slices.DeleteFunc(s.queue, func(p pendingFrame) bool { return p.id == id })
}

// RunFrame runs every request queued before the call, in request order
// Callbacks run without the scheduler lock held; returns how many ran
func (s *ManualScheduler) RunFrame(now time.Time) int {
	s.mu.Lock()
	batch := s.queue
	s.queue = nil
	for _, p := range batch {
		s.inflight[p.id] = struct{}{}
	}
	s.mu.Unlock()

	ran := 0
	for _, p := range batch {
		s.mu.Lock()
		_, live := s.inflight[p.id]
		delete(s.inflight, p.id)
		s.mu.Unlock()
		if !live {
			continue
		}
		p.fn(now)
		ran++
	}
	return ran
}

// Pending counts requests that have neither run nor been cancelled
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue) + len(s.inflight)
}

// Requests counts every RequestFrame call since creation
func (s *ManualScheduler) Requests() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}
