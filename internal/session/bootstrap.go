package session

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dayplanhq/dayplan/internal/cache"
	"github.com/dayplanhq/dayplan/internal/models"
)

// Bootstrapper decides on first touch whether a user session can be
// resumed from the local cache, and starts the full content load either
// way.
type Bootstrapper struct {
	cache  cache.SessionCache
	loader *Loader
	saver  *Autosaver
	log    *zap.Logger
}

// NewBootstrapper creates a session bootstrapper.
func NewBootstrapper(c cache.SessionCache, loader *Loader, saver *Autosaver, log *zap.Logger) *Bootstrapper {
	return &Bootstrapper{cache: c, loader: loader, saver: saver, log: log}
}

// Theme returns the device's cached theme preference, applied immediately
// at bootstrap regardless of whether any remote load succeeds.
func (b *Bootstrapper) Theme(ctx context.Context, device string) models.Theme {
	return b.cache.GetTheme(ctx, device)
}

// Resume consults the local cache's session slot for the user. An empty,
// corrupt, or unreadable slot fails open: (nil, nil), meaning the caller
// exposes the login entry point. A present slot yields a live session that
// exposes the cached profile immediately, avoiding a loading flash, while
// the full content load runs in the background and is applied atomically
// when it resolves.
func (b *Bootstrapper) Resume(ctx context.Context, userID uuid.UUID) (*Session, error) {
	profile, err := b.cache.GetSessionProfile(ctx, userID)
	if err != nil {
		// A broken cache must never crash the bootstrap; it only costs
		// the resume shortcut.
		b.log.Warn("session_cache_read_failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, nil
	}
	if profile == nil {
		return nil, nil
	}

	sess := New(profile.ID)
	sess.SetOptimisticProfile(profile)
	b.saver.Attach(sess)

	go func() {
		p, cols := b.loader.Load(context.Background(), profile.ID)
		sess.ApplyLoaded(p, cols)
		b.log.Info("session_resumed",
			zap.String("user_id", profile.ID.String()),
			zap.Bool("remote_profile_found", p != nil),
		)
	}()

	return sess, nil
}

// StartFresh creates a session right after authentication, loading content
// synchronously: a fresh login has no optimistic state worth showing. When
// the remote store has no profile yet (brand-new account), fallback is
// installed instead.
func (b *Bootstrapper) StartFresh(ctx context.Context, userID uuid.UUID, fallback *models.Profile) *Session {
	sess := New(userID)
	b.saver.Attach(sess)

	profile, cols := b.loader.Load(ctx, userID)
	installedFallback := profile == nil && fallback != nil
	if installedFallback {
		profile = fallback
	}
	sess.ApplyLoaded(profile, cols)

	// A fallback profile exists only in memory until the first autosave
	// cycle. Persist it now, or a restart before any mutation would leave
	// the account with no profile document at all.
	if installedFallback {
		b.saver.Save(ctx, sess)
		b.log.Info("fallback_profile_persisted",
			zap.String("user_id", userID.String()),
		)
	}

	return sess
}
