package migrations

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/consensuslabs/storefront/backend/internal/database"
	"github.com/consensuslabs/storefront/backend/internal/logger"
	"github.com/consensuslabs/storefront/backend/internal/metrics"
	"github.com/consensuslabs/storefront/backend/internal/schema"
	"github.com/consensuslabs/storefront/backend/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Directions
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// Runner applies and reverts a Sequence against one database
type Runner struct {
	db      *gorm.DB
	seq     *Sequence
	handle  *schema.Handle
	ledger  *database.Ledger
	logger  logger.Logger
	metrics *metrics.Collector
	sink    storage.ArchiveSink
	table   string
}

// Option configures a Runner
type Option func(*Runner)

// WithLogger sets the runner's logger
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithMetrics records migration counters and durations on c
func WithMetrics(c *metrics.Collector) Option {
	return func(r *Runner) { r.metrics = c }
}

// WithArchive uploads values destroyed by lossy migrations to sink
func WithArchive(sink storage.ArchiveSink) Option {
	return func(r *Runner) { r.sink = sink }
}

// WithLedgerTable overrides the ledger table name
func WithLedgerTable(table string) Option {
	return func(r *Runner) { r.table = table }
}

// NewRunner creates a runner for seq
func NewRunner(db *gorm.DB, seq *Sequence, opts ...Option) *Runner {
	r := &Runner{
		db:     db,
		seq:    seq,
		handle: schema.NewHandle(db),
		logger: logger.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.ledger = database.NewLedger(db, r.table)
	return r
}

// StatusEntry describes one migration and whether it is applied
type StatusEntry struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Applied     bool       `json:"applied"`
	Batch       int        `json:"batch,omitempty"`
	AppliedAt   *time.Time `json:"appliedAt,omitempty"`
	Lossy       bool       `json:"lossy"`
	Known       bool       `json:"known"`
}

// Status lists every migration of the sequence plus any applied migration
// the sequence does not know about.
func (r *Runner) Status(ctx context.Context) ([]StatusEntry, error) {
	if err := r.ledger.Initialize(ctx); err != nil {
		return nil, err
	}
	records, err := r.ledger.Applied(ctx)
	if err != nil {
		return nil, err
	}
	applied := make(map[string]database.MigrationRecord, len(records))
	for _, rec := range records {
		applied[rec.Name] = rec
	}

	entries := make([]StatusEntry, 0, r.seq.Len())
	for _, m := range r.seq.All() {
		entry := StatusEntry{Name: m.Name, Description: m.Description, Lossy: m.Lossy, Known: true}
		if rec, ok := applied[m.Name]; ok {
			appliedAt := rec.AppliedAt
			entry.Applied = true
			entry.Batch = rec.BatchNo
			entry.AppliedAt = &appliedAt
			delete(applied, m.Name)
		}
		entries = append(entries, entry)
	}
	for _, rec := range records {
		if _, unknown := applied[rec.Name]; !unknown {
			continue
		}
		appliedAt := rec.AppliedAt
		entries = append(entries, StatusEntry{Name: rec.Name, Applied: true, Batch: rec.BatchNo, AppliedAt: &appliedAt})
	}
	return entries, nil
}

// Pending returns the names of migrations not yet applied, in order
func (r *Runner) Pending(ctx context.Context) ([]string, error) {
	entries, err := r.Status(ctx)
	if err != nil {
		return nil, err
	}
	var pending []string
	for _, e := range entries {
		if e.Known && !e.Applied {
			pending = append(pending, e.Name)
		}
	}
	if r.metrics != nil {
		r.metrics.SetPending(len(pending))
	}
	return pending, nil
}

// Up applies every pending migration in order under a single batch number.
// The first failure stops the run; migrations applied before it stay applied.
func (r *Runner) Up(ctx context.Context) ([]string, error) {
	log := r.logger.WithFields(map[string]interface{}{
		"run_id":    uuid.NewString(),
		"direction": DirectionUp,
	})

	if err := r.ledger.Initialize(ctx); err != nil {
		return nil, err
	}
	records, err := r.ledger.Applied(ctx)
	if err != nil {
		return nil, err
	}
	applied := make(map[string]database.MigrationRecord, len(records))
	for _, rec := range records {
		applied[rec.Name] = rec
	}

	batch, err := r.ledger.NextBatch(ctx)
	if err != nil {
		return nil, err
	}

	var done []string
	for _, m := range r.seq.All() {
		if rec, ok := applied[m.Name]; ok {
			if rec.Hash != database.Hash(m.Description) {
				log.LogWarn("Applied migration changed since it ran", map[string]interface{}{
					"migration": m.Name,
				})
			}
			continue
		}
		if err := ctx.Err(); err != nil {
			return done, err
		}

		log.LogInfo("Running migration up", map[string]interface{}{
			"migration": m.Name,
			"batch":     batch,
		})
		start := time.Now()
		err := r.step(ctx, func(h *schema.Handle, l *database.Ledger) error {
			if err := r.archive(ctx, h, m, log); err != nil {
				return err
			}
			if err := m.Up(ctx, h, h.Types()); err != nil {
				return err
			}
			return l.Record(ctx, m.Name, m.Description, batch)
		})
		r.observe(m.Name, DirectionUp, start, err)
		if err != nil {
			return done, log.LogError(fmt.Errorf("migration %s up failed: %w", m.Name, err), "Migration failed", map[string]interface{}{
				"migration": m.Name,
			})
		}
		done = append(done, m.Name)
	}

	if len(done) == 0 {
		log.LogInfo("No pending migrations", nil)
	} else {
		log.LogInfo("Migrations applied", map[string]interface{}{
			"count": len(done),
			"batch": batch,
		})
	}
	if r.metrics != nil {
		r.metrics.SetPending(0)
	}
	return done, nil
}

// Down reverts the most recent steps applied migrations, newest first.
// steps <= 0 reverts the latest batch.
func (r *Runner) Down(ctx context.Context, steps int) ([]string, error) {
	log := r.logger.WithFields(map[string]interface{}{
		"run_id":    uuid.NewString(),
		"direction": DirectionDown,
	})

	if err := r.ledger.Initialize(ctx); err != nil {
		return nil, err
	}
	records, err := r.ledger.Applied(ctx)
	if err != nil {
		return nil, err
	}
	targets := selectRevert(records, steps)

	var done []string
	for _, rec := range targets {
		m, ok := r.seq.Lookup(rec.Name)
		if !ok {
			return done, fmt.Errorf("applied migration %s is not part of the sequence", rec.Name)
		}
		if err := ctx.Err(); err != nil {
			return done, err
		}

		log.LogInfo("Running migration down", map[string]interface{}{
			"migration": m.Name,
			"batch":     rec.BatchNo,
		})
		if m.Lossy {
			log.LogWarn("Reverting lossy migration; prior values are not restored", map[string]interface{}{
				"migration": m.Name,
				"archived":  len(m.Archive) > 0 && r.sink != nil,
			})
		}

		start := time.Now()
		err := r.step(ctx, func(h *schema.Handle, l *database.Ledger) error {
			if err := m.Down(ctx, h, h.Types()); err != nil {
				return err
			}
			return l.Remove(ctx, m.Name)
		})
		r.observe(m.Name, DirectionDown, start, err)
		if err != nil {
			return done, log.LogError(fmt.Errorf("migration %s down failed: %w", m.Name, err), "Migration failed", map[string]interface{}{
				"migration": m.Name,
			})
		}
		done = append(done, m.Name)
	}

	log.LogInfo("Migrations reverted", map[string]interface{}{
		"count": len(done),
	})
	return done, nil
}

// selectRevert picks the records to revert, newest first
func selectRevert(records []database.MigrationRecord, steps int) []database.MigrationRecord {
	if len(records) == 0 {
		return nil
	}
	var targets []database.MigrationRecord
	if steps <= 0 {
		latest := records[len(records)-1].BatchNo
		for i := len(records) - 1; i >= 0; i-- {
			if records[i].BatchNo == latest {
				targets = append(targets, records[i])
			}
		}
		return targets
	}
	for i := len(records) - 1; i >= 0 && len(targets) < steps; i-- {
		targets = append(targets, records[i])
	}
	return targets
}

// step runs fn in a transaction when the dialect rolls back DDL, and
// directly otherwise.
func (r *Runner) step(ctx context.Context, fn func(h *schema.Handle, l *database.Ledger) error) error {
	if !r.handle.Types().TransactionalDDL() {
		return fn(r.handle, r.ledger)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.handle.WithDB(tx), r.ledger.WithDB(tx))
	})
}

// archive uploads the columns m is about to destroy
func (r *Runner) archive(ctx context.Context, h *schema.Handle, m Migration, log logger.Logger) error {
	if r.sink == nil || len(m.Archive) == 0 {
		return nil
	}
	for _, a := range m.Archive {
		rows, err := h.ReadColumn(ctx, a.Table, a.Key, a.Column)
		if err != nil {
			return err
		}
		data, err := json.Marshal(rows)
		if err != nil {
			return fmt.Errorf("failed to encode archive of %s.%s: %w", a.Table, a.Column, err)
		}
		key := ArchiveKey(m.Name, a)
		location, err := r.sink.Put(ctx, key, data)
		if err != nil {
			return fmt.Errorf("failed to archive %s.%s: %w", a.Table, a.Column, err)
		}
		if r.metrics != nil {
			r.metrics.AddArchived(m.Name, a.Table, a.Column, len(rows))
		}
		log.LogInfo("Archived column before migration", map[string]interface{}{
			"migration": m.Name,
			"location":  location,
			"rows":      len(rows),
		})
	}
	return nil
}

// ArchiveKey is the object key for an archived column
func ArchiveKey(migration string, a ArchiveSpec) string {
	return path.Join(migration, fmt.Sprintf("%s.%s.json", a.Table, a.Column))
}

func (r *Runner) observe(name, direction string, start time.Time, err error) {
	if r.metrics != nil {
		r.metrics.ObserveMigration(name, direction, time.Since(start), err)
	}
}
