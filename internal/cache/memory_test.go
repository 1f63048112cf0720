package cache

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/dayplanhq/dayplan/internal/models"
)

func TestMemoryCache_SessionSlot(t *testing.T) {
	t.Parallel()

	c := NewMemory()
	ctx := context.Background()
	userID := uuid.New()

	got, err := c.GetSessionProfile(ctx, userID)
	if err != nil || got != nil {
		t.Fatalf("empty slot: got (%v, %v), want (nil, nil)", got, err)
	}

	profile := &models.Profile{ID: userID, Name: "Ana", XP: 120, Level: 2}
	if err := c.SetSessionProfile(ctx, userID, profile); err != nil {
		t.Fatalf("SetSessionProfile failed: %v", err)
	}

	got, err = c.GetSessionProfile(ctx, userID)
	if err != nil {
		t.Fatalf("GetSessionProfile failed: %v", err)
	}
	if got == nil || got.Name != "Ana" || got.XP != 120 {
		t.Errorf("session mirror mismatch: %+v", got)
	}

	// nil clears the slot
	if err := c.SetSessionProfile(ctx, userID, nil); err != nil {
		t.Fatalf("clearing slot failed: %v", err)
	}
	got, _ = c.GetSessionProfile(ctx, userID)
	if got != nil {
		t.Error("slot not cleared")
	}
}

func TestMemoryCache_CorruptEntryFailsOpen(t *testing.T) {
	t.Parallel()

	c := NewMemory()
	ctx := context.Background()
	userID := uuid.New()

	c.Corrupt(userID)

	got, err := c.GetSessionProfile(ctx, userID)
	if err != nil {
		t.Fatalf("corrupt entry must not error, got: %v", err)
	}
	if got != nil {
		t.Error("corrupt entry must read as empty")
	}
}

func TestMemoryCache_Theme(t *testing.T) {
	t.Parallel()

	c := NewMemory()
	ctx := context.Background()

	if theme := c.GetTheme(ctx, DefaultDevice); theme != models.DefaultTheme {
		t.Errorf("unset theme = %q, want default %q", theme, models.DefaultTheme)
	}

	if err := c.SetTheme(ctx, DefaultDevice, models.ThemeLight); err != nil {
		t.Fatalf("SetTheme failed: %v", err)
	}
	if theme := c.GetTheme(ctx, DefaultDevice); theme != models.ThemeLight {
		t.Errorf("theme = %q, want %q", theme, models.ThemeLight)
	}

	// an empty device name aliases the default slot
	if theme := c.GetTheme(ctx, ""); theme != models.ThemeLight {
		t.Errorf("empty-device theme = %q, want %q", theme, models.ThemeLight)
	}

	// other devices keep their own preference
	if err := c.SetTheme(ctx, "phone", models.ThemeDark); err != nil {
		t.Fatalf("SetTheme failed: %v", err)
	}
	if theme := c.GetTheme(ctx, "phone"); theme != models.ThemeDark {
		t.Errorf("phone theme = %q, want %q", theme, models.ThemeDark)
	}
	if theme := c.GetTheme(ctx, DefaultDevice); theme != models.ThemeLight {
		t.Errorf("default theme = %q after phone update, want %q", theme, models.ThemeLight)
	}
}
