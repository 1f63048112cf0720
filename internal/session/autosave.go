package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/dayplanhq/dayplan/internal/cache"
	"github.com/dayplanhq/dayplan/internal/models"
	"github.com/dayplanhq/dayplan/internal/store"
)

// Autosaver persists the whole working set on every change: five
// collection saves plus the profile save fired concurrently against the
// remote store, then a mirror of the profile into the local cache so a
// future bootstrap resumes without a network round trip.
//
// Saves are whole-document replacements with no merge. A second change
// event does not cancel an in-flight cycle; overlapping cycles race at the
// store's upsert layer and the last write to arrive wins. That is the
// accepted single-session model, not something to paper over here.
type Autosaver struct {
	store store.RemoteStore
	cache cache.SessionCache
	log   *zap.Logger
}

// NewAutosaver creates an autosave pipeline.
func NewAutosaver(st store.RemoteStore, c cache.SessionCache, log *zap.Logger) *Autosaver {
	return &Autosaver{store: st, cache: c, log: log}
}

// Attach registers the autosaver as the session's change hook. Each change
// event starts an independent save cycle on its own goroutine so mutations
// never block on I/O.
func (a *Autosaver) Attach(sess *Session) {
	sess.OnChange(func() {
		go a.Save(context.Background(), sess)
	})
}

// Save runs one autosave cycle. Writes are suppressed until the initial
// content load has completed and a profile exists: saving before both
// gates are open would overwrite remote data with empty initial state.
// Individual write failures are logged and absorbed; the in-memory state
// stays authoritative for the session either way, and nothing is retried
// or rolled back.
func (a *Autosaver) Save(ctx context.Context, sess *Session) {
	if !sess.Ready() {
		a.log.Debug("autosave_suppressed_content_not_loaded",
			zap.String("user_id", sess.UserID().String()),
		)
		return
	}

	profile, cols := sess.Snapshot()
	if profile == nil {
		a.log.Debug("autosave_suppressed_no_profile",
			zap.String("user_id", sess.UserID().String()),
		)
		return
	}
	userID := profile.ID

	saves := []struct {
		name  string
		items any
	}{
		{models.CollectionTasks, cols.Tasks},
		{models.CollectionHabits, cols.Habits},
		{models.CollectionGoals, cols.Goals},
		{models.CollectionNotes, cols.Notes},
		{models.CollectionTransactions, cols.Transactions},
	}

	var wg sync.WaitGroup
	for _, s := range saves {
		wg.Add(1)
		go func(name string, items any) {
			defer wg.Done()
			if err := a.store.SaveCollection(ctx, userID, name, items); err != nil {
				a.log.Warn("collection_save_failed",
					zap.String("user_id", userID.String()),
					zap.String("collection", name),
					zap.Error(err),
				)
			}
		}(s.name, s.items)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := a.store.SaveProfile(ctx, *profile); err != nil {
			a.log.Warn("profile_save_failed",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
		}
	}()

	// The cache mirror is written once all remote writes have been issued;
	// it does not wait for them to complete.
	if err := a.cache.SetSessionProfile(ctx, userID, profile); err != nil {
		a.log.Warn("session_mirror_write_failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}

	wg.Wait()
	a.log.Debug("autosave_cycle_complete",
		zap.String("user_id", userID.String()),
	)
}
