package memory

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/omarshaarawi/squadbot/internal/models"
)

type entry struct {
	report     *models.SeasonReport
	computedAt time.Time
}

// Repository keeps the last season report per team for a fixed time-to-live,
// plus the team each chat is looking at.
type Repository struct {
	clock      clockwork.Clock
	ttl        time.Duration
	reports    map[string]entry
	selections map[int64]string
	generation uint64
	mu         sync.RWMutex
}

func NewRepository(ttl time.Duration, clock clockwork.Clock) *Repository {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Repository{
		clock:      clock,
		ttl:        ttl,
		reports:    map[string]entry{},
		selections: map[int64]string{},
	}
}

func (r *Repository) Now() time.Time {
	return r.clock.Now()
}

// Generation identifies the current cache epoch. InvalidateAll starts a new
// one.
func (r *Repository) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

// SaveReport replaces the cached report for its team in one step. A report
// computed under an older generation is dropped and false is returned.
func (r *Repository) SaveReport(report *models.SeasonReport, generation uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if generation != r.generation {
		return false
	}
	r.reports[report.Team] = entry{report: report, computedAt: r.clock.Now()}
	return true
}

// GetReport returns the cached report for team if it is still fresh.
func (r *Repository) GetReport(team string) (*models.SeasonReport, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.reports[team]
	if !ok || r.clock.Since(e.computedAt) >= r.ttl {
		return nil, false
	}
	return e.report, true
}

func (r *Repository) InvalidateAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation++
	r.reports = map[string]entry{}
}

func (r *Repository) SaveSelection(chatID int64, team string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selections[chatID] = team
}

func (r *Repository) GetSelection(chatID int64) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	team, ok := r.selections[chatID]
	return team, ok
}
