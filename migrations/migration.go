package migrations

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/consensuslabs/storefront/backend/internal/schema"
)

// Func is one direction of a migration
type Func func(ctx context.Context, e schema.Editor, t schema.Types) error

// ArchiveSpec names a column whose values a migration destroys
type ArchiveSpec struct {
	Table  string
	Key    string
	Column string
}

// Migration is a named pair of inverse schema transformations
type Migration struct {
	Name        string
	Description string
	Up          Func
	Down        Func
	// Lossy marks migrations whose Down restores structure but not data
	Lossy   bool
	Archive []ArchiveSpec
}

const timestampLayout = "20060102150405"

var namePattern = regexp.MustCompile(`^(\d{14})-[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Timestamp parses the ordering prefix of the migration name
func (m Migration) Timestamp() (time.Time, error) {
	match := namePattern.FindStringSubmatch(m.Name)
	if match == nil {
		return time.Time{}, fmt.Errorf("invalid migration name %q: want <YYYYMMDDhhmmss>-<slug>", m.Name)
	}
	ts, err := time.Parse(timestampLayout, match[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid migration timestamp in %q: %w", m.Name, err)
	}
	return ts, nil
}

func (m Migration) validate() error {
	if _, err := m.Timestamp(); err != nil {
		return err
	}
	if m.Up == nil || m.Down == nil {
		return fmt.Errorf("migration %s must define both up and down", m.Name)
	}
	for _, a := range m.Archive {
		if a.Table == "" || a.Key == "" || a.Column == "" {
			return fmt.Errorf("migration %s has an incomplete archive entry", m.Name)
		}
	}
	return nil
}

// Sequence is an ordered, append-only list of migrations
type Sequence struct {
	migrations []Migration
	index      map[string]int
}

// NewSequence builds a sequence from migrations in order
func NewSequence(migrations ...Migration) (*Sequence, error) {
	s := &Sequence{index: make(map[string]int)}
	for _, m := range migrations {
		if err := s.Append(m); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Append adds m at the end. Its name must be well formed, unique and sort
// strictly after the last migration.
func (s *Sequence) Append(m Migration) error {
	if err := m.validate(); err != nil {
		return err
	}
	if _, exists := s.index[m.Name]; exists {
		return fmt.Errorf("duplicate migration %s", m.Name)
	}
	if n := len(s.migrations); n > 0 {
		last := s.migrations[n-1]
		lastTS, _ := last.Timestamp()
		ts, _ := m.Timestamp()
		if !ts.After(lastTS) {
			return fmt.Errorf("migration %s must be newer than %s", m.Name, last.Name)
		}
	}
	s.index[m.Name] = len(s.migrations)
	s.migrations = append(s.migrations, m)
	return nil
}

// All returns the migrations in application order
func (s *Sequence) All() []Migration {
	return append([]Migration(nil), s.migrations...)
}

// Lookup finds a migration by name
func (s *Sequence) Lookup(name string) (Migration, bool) {
	i, ok := s.index[name]
	if !ok {
		return Migration{}, false
	}
	return s.migrations[i], true
}

// Len returns the number of migrations
func (s *Sequence) Len() int {
	return len(s.migrations)
}

// Default returns the storefront schema history
func Default() *Sequence {
	seq, err := NewSequence(
		createUsers(),
		createProducts(),
		createOrders(),
		createOrderInfo(),
		addEmailVerificationTokenExpires(),
		removeStockFromProducts(),
	)
	if err != nil {
		panic(err)
	}
	return seq
}
