package catalog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lifelineconnect/lifeline/engine/domain"
)

// ErrNoSource is returned by Reload before any file has been loaded.
var ErrNoSource = errors.New("catalog: no source loaded")

// Snapshot is one immutable version of the resource table. Callers must not
// modify Resources.
type Snapshot struct {
	Resources []domain.Resource
	Rejected  int
	Source    string
	LoadedAt  time.Time
}

// Store publishes the current Snapshot. Reads are lock-free; loads replace
// the whole snapshot with a single pointer swap, so readers never observe a
// partially loaded table.
type Store struct {
	current atomic.Pointer[Snapshot]
	loadMu  sync.Mutex // serializes Load/Reload
	source  string
	logger  *slog.Logger
	now     func() time.Time
}

// NewStore creates an empty Store. A nil logger discards output.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Store{logger: logger, now: time.Now}
	s.current.Store(&Snapshot{Resources: []domain.Resource{}})
	return s
}

// NewStatic returns a Store already holding resources.
func NewStatic(resources []domain.Resource) *Store {
	s := NewStore(nil)
	s.Set(resources, "static")
	return s
}

// Current returns the published snapshot. It is never nil.
func (s *Store) Current() *Snapshot { return s.current.Load() }

// Resources returns the current resource table.
func (s *Store) Resources() []domain.Resource { return s.Current().Resources }

// Set publishes resources as a new snapshot.
func (s *Store) Set(resources []domain.Resource, source string) *Snapshot {
	if resources == nil {
		resources = []domain.Resource{}
	}
	snap := &Snapshot{Resources: resources, Source: source, LoadedAt: s.now()}
	s.current.Store(snap)
	return snap
}

// Load parses the CSV at path and publishes it. On error the previous
// snapshot stays in place.
func (s *Store) Load(path string) (*Snapshot, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	defer f.Close()

	res, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	for _, rej := range res.Rejected {
		s.logger.Warn("resource row dropped", "source", path, "err", rej)
	}
	if len(res.Synthesized) > 0 {
		s.logger.Info("resource columns synthesized", "source", path, "columns", res.Synthesized)
	}

	snap := &Snapshot{
		Resources: res.Resources,
		Rejected:  len(res.Rejected),
		Source:    path,
		LoadedAt:  s.now(),
	}
	s.current.Store(snap)
	s.source = path
	s.logger.Info("resources loaded", "source", path, "count", len(snap.Resources), "rejected", snap.Rejected)
	return snap, nil
}

// Reload loads the most recently loaded path again.
func (s *Store) Reload() (*Snapshot, error) {
	s.loadMu.Lock()
	path := s.source
	s.loadMu.Unlock()
	if path == "" {
		return nil, ErrNoSource
	}
	return s.Load(path)
}
