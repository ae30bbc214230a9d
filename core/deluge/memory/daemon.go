package memory

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	// ErrAuth is returned when Connect is called with unknown credentials.
	ErrAuth = errors.New("authentication failed")
	// ErrLabelExists is returned by AddLabel for a label that already exists.
	ErrLabelExists = errors.New("label already exists")
	// ErrLabelPluginDisabled is returned by label calls while the label plugin is off.
	ErrLabelPluginDisabled = errors.New("label plugin not enabled")
	// ErrUnknownTorrent is returned by per-torrent calls for an id the daemon does not hold.
	ErrUnknownTorrent = errors.New("unknown torrent")
)

// Torrent is the daemon-side state of one added torrent.
type Torrent struct {
	ID                string
	Name              string
	DownloadLocation  string
	MoveCompleted     bool
	MoveCompletedPath string
	Label             string
}

// Daemon is an in-process stand-in for a Deluge daemon. Torrent ids are the
// SHA-1 of the file content, so adding identical content twice is a duplicate.
type Daemon struct {
	mu       sync.Mutex
	torrents map[string]*Torrent
	queue    []string
	plugins  map[string]bool
	labels   map[string]bool
	sessions int

	// Users restricts Connect to these username/password pairs when non-empty.
	Users map[string]string
	// FailConnect makes every Connect call fail with this error.
	FailConnect error
	// FailAdd makes adds of the named file (base name or title) fail.
	FailAdd map[string]error
	// RegisterDelay postpones registration of legacy adds, simulating a daemon
	// that returns from the add call before the torrent is visible.
	RegisterDelay time.Duration
}

// NewDaemon creates an empty daemon with no plugins enabled.
func NewDaemon() *Daemon {
	return &Daemon{
		torrents: make(map[string]*Torrent),
		plugins:  make(map[string]bool),
		labels:   make(map[string]bool),
		FailAdd:  make(map[string]error),
	}
}

// TorrentID returns the id the daemon assigns to the given content.
func TorrentID(content []byte) string {
	sum := sha1.Sum(content)
	return hex.EncodeToString(sum[:])
}

// Torrent returns a copy of a torrent's state.
func (d *Daemon) Torrent(id string) (Torrent, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.torrents[id]
	if !ok {
		return Torrent{}, false
	}
	return *t, true
}

// Queue returns torrent ids in queue order.
func (d *Daemon) Queue() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.queue))
	copy(out, d.queue)
	return out
}

// Sessions returns the number of currently open RPC sessions.
func (d *Daemon) Sessions() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sessions
}

func (d *Daemon) connect(user, pass string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailConnect != nil {
		return d.FailConnect
	}
	if len(d.Users) > 0 {
		if p, ok := d.Users[user]; !ok || p != pass {
			return ErrAuth
		}
	}
	d.sessions++
	return nil
}

// dial reports the injected connect failure without opening a session.
func (d *Daemon) dial() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.FailConnect
}

func (d *Daemon) disconnect() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sessions > 0 {
		d.sessions--
	}
}

// add registers content and returns its id, or "" when it is already loaded.
func (d *Daemon) add(name string, content []byte, location string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err, ok := d.FailAdd[name]; ok {
		return "", err
	}
	id := TorrentID(content)
	if _, exists := d.torrents[id]; exists {
		return "", nil
	}
	d.torrents[id] = &Torrent{ID: id, Name: name, DownloadLocation: location}
	d.queue = append(d.queue, id)
	return id, nil
}

func (d *Daemon) sessionState() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	ids := make([]string, 0, len(d.torrents))
	for id := range d.torrents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (d *Daemon) withTorrent(id string, fn func(t *Torrent) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.torrents[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTorrent, id)
	}
	return fn(t)
}

func (d *Daemon) enabledPlugins() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.plugins))
	for name := range d.plugins {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (d *Daemon) enablePlugin(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.plugins[strings.ToLower(name)] = true
}

func (d *Daemon) labelList() ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.plugins["label"] {
		return nil, ErrLabelPluginDisabled
	}
	out := make([]string, 0, len(d.labels))
	for l := range d.labels {
		out = append(out, l)
	}
	sort.Strings(out)
	return out, nil
}

func (d *Daemon) addLabel(label string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.plugins["label"] {
		return ErrLabelPluginDisabled
	}
	if d.labels[label] {
		return fmt.Errorf("%w: %s", ErrLabelExists, label)
	}
	d.labels[label] = true
	return nil
}

func (d *Daemon) setLabel(id, label string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.plugins["label"] {
		return ErrLabelPluginDisabled
	}
	if !d.labels[label] {
		return fmt.Errorf("unknown label: %s", label)
	}
	t, ok := d.torrents[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTorrent, id)
	}
	t.Label = label
	return nil
}

func (d *Daemon) queueTop(ids []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	top := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := d.torrents[id]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownTorrent, id)
		}
		top = append(top, id)
	}
	rest := make([]string, 0, len(d.queue))
	for _, q := range d.queue {
		moved := false
		for _, id := range top {
			if q == id {
				moved = true
				break
			}
		}
		if !moved {
			rest = append(rest, q)
		}
	}
	d.queue = append(top, rest...)
	return nil
}
