package fixture

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"path"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/afero"
	"github.com/vmihailenco/msgpack/v5"

	"watchcheck/internal/watchhost"
)

// SnapshotSchema is the current snapshot format version. Increment when
// Snapshot changes shape.
const SnapshotSchema uint16 = 1

// ErrSchemaMismatch is returned for snapshots written by another format
// version.
var ErrSchemaMismatch = errors.New("snapshot schema mismatch")

// Snapshot is a recorded trace persisted to disk.
type Snapshot struct {
	Schema       uint16
	ID           string
	NewLine      string
	Outputs      []string
	ScreenClears []int
	ExitCode     *int
}

// Trace returns the snapshot as a verifiable recording.
func (s *Snapshot) Trace() *watchhost.Trace {
	tr := watchhost.Trace{Outputs: s.Outputs, ScreenClears: s.ScreenClears, ExitStatus: s.ExitCode}
	cp := tr.Snapshot()
	return &cp
}

// Store reads and writes snapshots. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	fs      afero.Fs
	now     func() time.Time
	entropy io.Reader
}

// NewStore returns a store on fsys.
func NewStore(fsys afero.Fs) *Store {
	return &Store{
		fs:      fsys,
		now:     time.Now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Record turns a trace into a snapshot with a fresh ID.
func (s *Store) Record(tr watchhost.Trace, newline string) (*Snapshot, error) {
	s.mu.Lock()
	id, err := ulid.New(ulid.Timestamp(s.now()), s.entropy)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("snapshot id: %w", err)
	}
	cp := tr.Snapshot()
	return &Snapshot{
		Schema:       SnapshotSchema,
		ID:           id.String(),
		NewLine:      newline,
		Outputs:      cp.Outputs,
		ScreenClears: cp.ScreenClears,
		ExitCode:     cp.ExitStatus,
	}, nil
}

// Put writes snap to p, replacing any previous file atomically.
func (s *Store) Put(p string, snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.MkdirAll(path.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := afero.TempFile(s.fs, path.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	committed := false
	defer func() {
		if !committed {
			_ = s.fs.Remove(tmp) //nolint:errcheck
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(snap); err != nil {
		_ = f.Close() //nolint:errcheck
		return fmt.Errorf("%s: encode: %w", p, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	// atomic replace
	if err := s.fs.Rename(tmp, p); err != nil {
		return err
	}
	committed = true
	return nil
}

// Get reads the snapshot at p.
func (s *Store) Get(p string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := s.fs.Open(p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	defer f.Close()

	var snap Snapshot
	if err := msgpack.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", p, err)
	}
	if snap.Schema != SnapshotSchema {
		return nil, fmt.Errorf("%s: %w: got %d, want %d", p, ErrSchemaMismatch, snap.Schema, SnapshotSchema)
	}
	if _, err := ulid.ParseStrict(snap.ID); err != nil {
		return nil, fmt.Errorf("%s: invalid id %q: %w", p, snap.ID, err)
	}
	return &snap, nil
}
