package console

import (
	"bytes"
	"sync"
	"time"
)

// DefaultCapacity is used when a sink is created with a non-positive capacity.
const DefaultCapacity = 1000

// Sink is a bounded, concurrency-safe ring of console lines. When full, the
// oldest line is dropped.
type Sink struct {
	mu      sync.Mutex
	lines   []Line
	start   int
	count   int
	seq     uint64
	dropped uint64
	updates chan struct{}
	now     func() time.Time
}

// NewSink creates a sink holding at most capacity lines.
func NewSink(capacity int) *Sink {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Sink{
		lines:   make([]Line, capacity),
		updates: make(chan struct{}, 1),
		now:     time.Now,
	}
}

// Append adds a line, stamping its sequence number and time if unset.
func (s *Sink) Append(l Line) Line {
	s.mu.Lock()
	s.seq++
	l.Seq = s.seq
	if l.Time.IsZero() {
		l.Time = s.now()
	}
	if l.Level == "" {
		l.Level = LevelInfo
	}
	if l.Source == "" {
		l.Source = SourceApp
	}

	capacity := len(s.lines)
	if s.count < capacity {
		s.lines[(s.start+s.count)%capacity] = l
		s.count++
	} else {
		s.lines[s.start] = l
		s.start = (s.start + 1) % capacity
		s.dropped++
	}
	s.mu.Unlock()

	s.notify()
	return l
}

// Log appends a message at the given level.
func (s *Sink) Log(level Level, msg string) Line {
	return s.Append(Line{Level: level, Message: msg})
}

// Write implements io.Writer. Each newline-terminated chunk becomes an info
// line, however long; a trailing partial line is kept as its own line.
func (s *Sink) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(p, []byte{'\n'}) {
		line = bytes.TrimSuffix(line, []byte{'\r'})
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		s.Log(LevelInfo, string(line))
	}
	return len(p), nil
}

// Lines returns a copy of the buffered lines, oldest first.
func (s *Sink) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Line, s.count)
	for i := 0; i < s.count; i++ {
		out[i] = s.lines[(s.start+i)%len(s.lines)]
	}
	return out
}

// Since returns the lines with a sequence number greater than seq.
func (s *Sink) Since(seq uint64) []Line {
	all := s.Lines()
	for i, l := range all {
		if l.Seq > seq {
			return all[i:]
		}
	}
	return nil
}

// Len returns the number of buffered lines.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Capacity returns the maximum number of lines kept.
func (s *Sink) Capacity() int {
	return len(s.lines)
}

// Dropped returns how many lines were evicted.
func (s *Sink) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Clear empties the buffer. Sequence numbers keep increasing.
func (s *Sink) Clear() {
	s.mu.Lock()
	s.start, s.count = 0, 0
	s.mu.Unlock()
	s.notify()
}

// Updates returns a channel that receives a value after the sink changes.
// Notifications coalesce: several appends may produce one signal.
func (s *Sink) Updates() <-chan struct{} {
	return s.updates
}

func (s *Sink) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
		// already pending
	}
}
