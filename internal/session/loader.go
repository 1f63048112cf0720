package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dayplanhq/dayplan/internal/models"
	"github.com/dayplanhq/dayplan/internal/store"
)

// Loader fetches a user's profile and all five data collections from the
// remote store. The six reads run concurrently; they have no ordering
// dependency on each other.
type Loader struct {
	store store.RemoteStore
	log   *zap.Logger
}

// NewLoader creates a content loader.
func NewLoader(st store.RemoteStore, log *zap.Logger) *Loader {
	return &Loader{store: st, log: log}
}

// Load assembles the working set for the user. It never fails: a collection
// that was never saved or whose read errors comes back as its empty
// default, logged but isolated from the other four; a failed or missing
// profile read yields a nil profile so the caller retains its optimistic
// one.
func (l *Loader) Load(ctx context.Context, userID uuid.UUID) (*models.Profile, models.Collections) {
	var (
		wg      sync.WaitGroup
		profile *models.Profile
		cols    models.Collections
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		p, err := l.store.LoadProfile(ctx, userID)
		if err != nil {
			l.log.Warn("profile_load_failed",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
			return
		}
		profile = p
	}()

	// Each collection read writes only its own slot, so no locking is
	// needed beyond the WaitGroup.
	loadInto(ctx, l, &wg, userID, models.CollectionTasks, &cols.Tasks)
	loadInto(ctx, l, &wg, userID, models.CollectionHabits, &cols.Habits)
	loadInto(ctx, l, &wg, userID, models.CollectionGoals, &cols.Goals)
	loadInto(ctx, l, &wg, userID, models.CollectionNotes, &cols.Notes)
	loadInto(ctx, l, &wg, userID, models.CollectionTransactions, &cols.Transactions)

	wg.Wait()

	// Never-saved and failed reads both come back as the empty collection,
	// not nil: "no data yet" is a normal state, not an error.
	if cols.Tasks == nil {
		cols.Tasks = []models.Task{}
	}
	if cols.Habits == nil {
		cols.Habits = []models.Habit{}
	}
	if cols.Goals == nil {
		cols.Goals = []models.Goal{}
	}
	if cols.Notes == nil {
		cols.Notes = []models.Note{}
	}
	if cols.Transactions == nil {
		cols.Transactions = []models.Transaction{}
	}

	return profile, cols
}

// loadInto reads one collection into its slot, substituting the empty
// default on failure so one bad collection never aborts the other four.
func loadInto[T any](ctx context.Context, l *Loader, wg *sync.WaitGroup, userID uuid.UUID, name string, out *[]T) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		var items []T
		if err := l.store.LoadCollection(ctx, userID, name, &items); err != nil {
			l.log.Warn("collection_load_failed_using_default",
				zap.String("user_id", userID.String()),
				zap.String("collection", name),
				zap.Error(err),
			)
			items = nil
		}
		*out = items
	}()
}
