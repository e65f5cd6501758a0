package matching

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"farmfund/grant-matcher/internal/models"
)

var (
	// ErrCatalogUnavailable means the upstream grant store could not be
	// reached. A failed reload leaves the previous snapshot in effect.
	ErrCatalogUnavailable = errors.New("grant catalog unavailable")

	// ErrNoSnapshot means matching was requested before any successful
	// load. Distinct from a response with zero matches.
	ErrNoSnapshot = errors.New("no catalog snapshot loaded")
)

// GrantSource is the upstream the catalog loads from, normally the Postgres
// grant repository.
type GrantSource interface {
	FindAll(ctx context.Context) ([]models.Grant, error)
}

// Snapshot is an immutable point-in-time view of the grant catalog. It is
// replaced wholesale on reload and never mutated, so readers holding one
// never observe a partial update.
type Snapshot struct {
	grants   []models.Grant
	byID     map[uuid.UUID]*models.Grant
	loadedAt time.Time
}

// Grants returns the snapshot's records in load order. Callers must not
// modify the returned slice.
func (s *Snapshot) Grants() []models.Grant {
	return s.grants
}

func (s *Snapshot) Get(id uuid.UUID) (*models.Grant, bool) {
	g, ok := s.byID[id]
	return g, ok
}

func (s *Snapshot) Count() int {
	return len(s.grants)
}

func (s *Snapshot) LoadedAt() time.Time {
	return s.loadedAt
}

// Health is the catalog freshness view consumed by monitoring. LastLoaded
// is nil until the first successful load.
type Health struct {
	Count      int
	LastLoaded *time.Time
}

// Catalog owns the process-wide snapshot. Load is the only writer; any
// number of readers may call Current concurrently without locking.
type Catalog struct {
	source   GrantSource
	logger   *zap.Logger
	snapshot atomic.Pointer[Snapshot]
}

func NewCatalog(source GrantSource, logger *zap.Logger) *Catalog {
	return &Catalog{
		source: source,
		logger: logger,
	}
}

// Load fetches all grants from the source, validates each record, and
// atomically swaps in a fresh snapshot. Malformed records are skipped with
// a warning; only an unreachable source fails the load, and then the
// previous snapshot stays in effect.
func (c *Catalog) Load(ctx context.Context) error {
	grants, err := c.source.FindAll(ctx)
	if err != nil {
		catalogReloadsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	snap := &Snapshot{
		grants:   make([]models.Grant, 0, len(grants)),
		byID:     make(map[uuid.UUID]*models.Grant, len(grants)),
		loadedAt: time.Now(),
	}

	skipped := 0
	for _, g := range grants {
		if err := g.Validate(); err != nil {
			skipped++
			catalogRecordsSkipped.Inc()
			c.logger.Warn("skipping malformed grant record",
				zap.String("grant_id", g.ID.String()),
				zap.Error(err),
			)
			continue
		}
		snap.grants = append(snap.grants, g)
		snap.byID[g.ID] = &snap.grants[len(snap.grants)-1]
	}

	c.snapshot.Store(snap)
	catalogReloadsTotal.WithLabelValues("ok").Inc()
	catalogSnapshotSize.Set(float64(snap.Count()))

	c.logger.Info("grant catalog loaded",
		zap.Int("count", snap.Count()),
		zap.Int("skipped", skipped),
	)
	return nil
}

// Current returns the latest successfully loaded snapshot, or nil before
// the first load.
func (c *Catalog) Current() *Snapshot {
	return c.snapshot.Load()
}

// Health reads the current snapshot's size and load time without touching
// the source.
func (c *Catalog) Health() Health {
	snap := c.Current()
	if snap == nil {
		return Health{}
	}
	loaded := snap.LoadedAt()
	return Health{Count: snap.Count(), LastLoaded: &loaded}
}
