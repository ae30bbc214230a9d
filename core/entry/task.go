package entry

import "sync"

// Task is the run-scoped collection of entries split into accepted and failed sets.
type Task struct {
	// Name identifies the run in logs.
	Name string
	// Learn marks a run that only records state and must not submit anything.
	Learn bool
	// Plugins is the set of plugins active for the run (e.g. "download").
	Plugins []string
	// StagingDir is where staged files live; used for diagnostics only.
	StagingDir string

	mu       sync.Mutex
	accepted []*Entry
	failed   []*Entry
	reasons  map[*Entry]string
}

// NewTask creates a task with the given accepted entries.
func NewTask(name string, accepted ...*Entry) *Task {
	return &Task{
		Name:     name,
		accepted: accepted,
		reasons:  make(map[*Entry]string),
	}
}

// Accept adds an entry to the accepted set.
func (t *Task) Accept(e *Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.accepted = append(t.accepted, e)
}

// Accepted returns the entries still accepted for this run.
func (t *Task) Accepted() []*Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Entry, len(t.accepted))
	copy(out, t.accepted)
	return out
}

// Fail moves an entry from the accepted set to the failed set, recording the reason.
// Failing the same entry twice keeps the first reason.
func (t *Task) Fail(e *Entry, reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.reasons == nil {
		t.reasons = make(map[*Entry]string)
	}
	if _, done := t.reasons[e]; done {
		return
	}
	t.reasons[e] = reason
	t.failed = append(t.failed, e)
	for i, a := range t.accepted {
		if a == e {
			t.accepted = append(t.accepted[:i], t.accepted[i+1:]...)
			break
		}
	}
}

// Failed returns the failed entries.
func (t *Task) Failed() []*Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Entry, len(t.failed))
	copy(out, t.failed)
	return out
}

// Reason returns the failure reason recorded for an entry.
func (t *Task) Reason(e *Entry) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.reasons[e]
	return r, ok
}

// HasPlugin reports whether the named plugin is active for the run.
func (t *Task) HasPlugin(name string) bool {
	for _, p := range t.Plugins {
		if p == name {
			return true
		}
	}
	return false
}
