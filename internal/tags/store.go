package tags

import (
	"context"
	"fmt"
	"sort"

	"github.com/afelia/fakewater/internal/world"
	"go.uber.org/zap"
)

// TagSet is an ordered list of tagged cells.
type TagSet []world.Coord

// Backend is the durable side of the store. Entries are in "world:x:y:z"
// form so every backend persists exactly what the YAML file would hold.
type Backend interface {
	// LoadEntries returns every persisted entry. A backend with nothing
	// stored yet returns an empty slice, not an error.
	LoadEntries(ctx context.Context) ([]string, error)
	// SaveEntries replaces the persisted set. A failed save must leave the
	// previous set intact.
	SaveEntries(ctx context.Context, entries []string) error
	Name() string
}

// WorldResolver tells the store which worlds the host has loaded.
type WorldResolver interface {
	HasWorld(name string) bool
}

// Store is the authoritative set of fake-water cells. Accessed only from the
// game loop goroutine.
type Store struct {
	tagged  map[world.Coord]struct{}
	backend Backend
	worlds  WorldResolver
	log     *zap.Logger
	dirty   bool
}

func NewStore(backend Backend, worlds WorldResolver, log *zap.Logger) *Store {
	return &Store{
		tagged:  make(map[world.Coord]struct{}, 256),
		backend: backend,
		worlds:  worlds,
		log:     log,
	}
}

// IsTagged never fails; unknown cells are untagged.
func (s *Store) IsTagged(c world.Coord) bool {
	_, ok := s.tagged[c]
	return ok
}

// SetTagged adds or removes the tag. Repeating a call is a no-op.
func (s *Store) SetTagged(c world.Coord, value bool) {
	_, had := s.tagged[c]
	switch {
	case value && !had:
		s.tagged[c] = struct{}{}
		s.dirty = true
	case !value && had:
		delete(s.tagged, c)
		s.dirty = true
	}
}

func (s *Store) Len() int { return len(s.tagged) }

// Dirty reports whether tags changed since the last load or successful save.
func (s *Store) Dirty() bool { return s.dirty }

// All returns a sorted snapshot of every tagged cell.
func (s *Store) All() TagSet {
	out := make(TagSet, 0, len(s.tagged))
	for c := range s.tagged {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// LoadAll replaces the in-memory set with the backend's contents. Bad
// entries are skipped with a warning; only an unreadable backend is an error.
func (s *Store) LoadAll(ctx context.Context) (TagSet, error) {
	entries, err := s.backend.LoadEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tags from %s: %w", s.backend.Name(), err)
	}

	loaded := make(map[world.Coord]struct{}, len(entries))
	set := make(TagSet, 0, len(entries))
	for _, e := range entries {
		c, err := ParseEntry(e)
		if err != nil {
			s.log.Warn("skipping malformed fake water entry", zap.String("entry", e), zap.Error(err))
			continue
		}
		if s.worlds != nil && !s.worlds.HasWorld(c.World) {
			s.log.Warn("failed to load fake water block: world not found",
				zap.String("entry", e), zap.String("world", c.World))
			continue
		}
		if _, dup := loaded[c]; dup {
			continue
		}
		loaded[c] = struct{}{}
		set = append(set, c)
	}

	s.tagged = loaded
	s.dirty = false
	s.log.Info("loaded fake water blocks",
		zap.String("backend", s.backend.Name()), zap.Int("count", len(set)))
	return set, nil
}

// SaveAll writes every tag to the backend. Failures are logged and returned;
// the in-memory set stays authoritative either way.
func (s *Store) SaveAll(ctx context.Context) error {
	set := s.All()
	if err := s.backend.SaveEntries(ctx, FormatEntries(set)); err != nil {
		s.log.Warn("failed to save fake water blocks",
			zap.String("backend", s.backend.Name()), zap.Error(err))
		return fmt.Errorf("save tags to %s: %w", s.backend.Name(), err)
	}
	s.dirty = false
	s.log.Info("saved fake water blocks",
		zap.String("backend", s.backend.Name()), zap.Int("count", len(set)))
	return nil
}
