package lock

import (
	"context"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/headspa-scheduler/internal/domain/appointment"
)

// LocalDateLocker serializa por data dentro do processo. Usado quando não há Redis
// (uma única instância da API).
type LocalDateLocker struct {
	mu    sync.Mutex
	locks map[string]*dateMutex
	wait  time.Duration
}

type dateMutex struct {
	ch   chan struct{}
	refs int
}

func NewLocalDateLocker(wait time.Duration) *LocalDateLocker {
	return &LocalDateLocker{
		locks: make(map[string]*dateMutex),
		wait:  wait,
	}
}

func (l *LocalDateLocker) WithDateLock(
	ctx context.Context,
	date string,
	fn func(ctx context.Context) error,
) error {

	m := l.acquireRef(date)
	defer l.releaseRef(date, m)

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case m.ch <- struct{}{}:
	case <-timer.C:
		return ErrLockNotAcquired
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-m.ch }()

	return fn(ctx)
}

func (l *LocalDateLocker) acquireRef(date string) *dateMutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[date]
	if !ok {
		m = &dateMutex{ch: make(chan struct{}, 1)}
		l.locks[date] = m
	}
	m.refs++
	return m
}

func (l *LocalDateLocker) releaseRef(date string, m *dateMutex) {
	l.mu.Lock()
	defer l.mu.Unlock()

	m.refs--
	if m.refs == 0 {
		delete(l.locks, date)
	}
}

var _ domain.DateLocker = (*LocalDateLocker)(nil)
