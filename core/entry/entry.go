package entry

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Entry is a single item flowing through a run, carrying arbitrary named fields.
type Entry struct {
	mu     sync.RWMutex
	fields map[string]any
}

// New creates an entry from the given fields. The map is copied.
func New(fields map[string]any) *Entry {
	e := &Entry{fields: make(map[string]any, len(fields))}
	for k, v := range fields {
		e.fields[k] = v
	}
	return e
}

// Get returns the value of a field and whether it is present.
func (e *Entry) Get(key string) (any, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.fields[key]
	return v, ok
}

// Set assigns a field value.
func (e *Entry) Set(key string, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fields[key] = value
}

// Delete removes a field.
func (e *Entry) Delete(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.fields, key)
}

// Has reports whether a field is present.
func (e *Entry) Has(key string) bool {
	_, ok := e.Get(key)
	return ok
}

// String returns a field rendered as a string, or fallback when absent.
func (e *Entry) String(key, fallback string) string {
	v, ok := e.Get(key)
	if !ok || v == nil {
		return fallback
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Bool returns a boolean field, or fallback when absent or not a boolean.
func (e *Entry) Bool(key string, fallback bool) bool {
	v, ok := e.Get(key)
	if !ok {
		return fallback
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		switch strings.ToLower(b) {
		case "true", "yes", "1":
			return true
		case "false", "no", "0":
			return false
		}
	}
	return fallback
}

// Title is shorthand for the "title" field.
func (e *Entry) Title() string {
	return e.String("title", "")
}

// Fields returns a copy of all fields.
func (e *Entry) Fields() map[string]any {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string]any, len(e.fields))
	for k, v := range e.fields {
		out[k] = v
	}
	return out
}

// Keys returns field names sorted with title and url first.
func (e *Entry) Keys() []string {
	e.mu.RLock()
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	e.mu.RUnlock()

	rank := func(k string) int {
		switch k {
		case "title":
			return 0
		case "url":
			return 1
		case "original_url":
			return 2
		}
		return 3
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := rank(keys[i]), rank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
	return keys
}
