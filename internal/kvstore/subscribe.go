package kvstore

import (
	"context"
	"time"
)

// Op identifies the kind of change.
type Op int

const (
	OpSet Op = iota
	OpRemove
	// OpExternal is reported when another process changed the database.
	// Its Path is empty.
	OpExternal
)

func (o Op) String() string {
	switch o {
	case OpSet:
		return "set"
	case OpRemove:
		return "remove"
	case OpExternal:
		return "external"
	default:
		return "unknown"
	}
}

// Change describes a committed write.
type Change struct {
	Op   Op
	Path string
}

// Affects reports whether the change may alter the node at path or any of
// its descendants.
func (c Change) Affects(path string) bool {
	return related(c.Path, path)
}

const subscriberBuffer = 16

// Subscribe returns a channel of changes. It is closed when ctx is done or
// the store is closed. Slow subscribers miss changes rather than block
// writers.
func (s *Store) Subscribe(ctx context.Context) <-chan Change {
	ch := make(chan Change, subscriberBuffer)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-s.stop:
			return
		}
		s.mu.Lock()
		if c, ok := s.subs[id]; ok {
			close(c)
			delete(s.subs, id)
		}
		s.mu.Unlock()
	}()
	return ch
}

func (s *Store) publish(c Change) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- c:
		default:
			// subscriber is behind; drop
		}
	}
}

// poll watches PRAGMA data_version, which changes when another connection
// commits.
func (s *Store) poll(every time.Duration) {
	defer s.wg.Done()
	t := time.NewTicker(every)
	defer t.Stop()

	var last int64 = -1
	for {
		select {
		case <-s.stop:
			return
		case <-t.C:
		}
		var v int64
		if err := s.db.QueryRow(`PRAGMA data_version`).Scan(&v); err != nil {
			s.log.Warn("kvstore poll failed", "err", err)
			continue
		}
		if last >= 0 && v != last {
			s.publish(Change{Op: OpExternal})
		}
		last = v
	}
}
