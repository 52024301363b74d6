package file_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/garnizeh/folio/internal/probe"
	"github.com/garnizeh/folio/internal/repository/file"
	"github.com/garnizeh/folio/pkg/models"
	"github.com/garnizeh/folio/pkg/repository"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writable() *probe.Probe {
	return probe.Fixed(probe.Result{Writable: true, Reason: "test"})
}

func skill(name string, rating int) models.Skill {
	return models.Skill{Name: name, Description: name + " skill", Rating: rating, Category: models.CategoryCoreStack}
}

func TestListMissingFileIsEmpty(t *testing.T) {
	b := file.New(t.TempDir(), writable(), nil)
	got, err := b.Skills().List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)

	_, err = b.Site().Get(context.Background())
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateThenList(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	b := file.New(dir, writable(), nil)

	require.NoError(t, b.Skills().Create(ctx, skill("Go", 5)))
	require.NoError(t, b.Skills().Create(ctx, skill("SQL", 4)))

	got, err := b.Skills().List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Go", got[0].Name)
	require.Equal(t, "SQL", got[1].Name)

	// a fresh backend on the same dir sees the persisted file
	again, err := file.New(dir, writable(), nil).Skills().List(ctx)
	require.NoError(t, err)
	require.Equal(t, got, again)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	require.Equal(t, "skills.go", entries[0].Name())
}

func TestCreateRejectsDuplicateAndInvalid(t *testing.T) {
	ctx := context.Background()
	b := file.New(t.TempDir(), writable(), nil)
	require.NoError(t, b.Skills().Create(ctx, skill("Go", 5)))

	err := b.Skills().Create(ctx, skill("Go", 3))
	require.ErrorIs(t, err, repository.ErrConflict)

	err = b.Skills().Create(ctx, skill("Rust", 6))
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "rating", ve.Fields[0].Field)
}

func TestUpdatePreservesIdentity(t *testing.T) {
	ctx := context.Background()
	b := file.New(t.TempDir(), writable(), nil)
	require.NoError(t, b.Skills().Create(ctx, skill("Go", 3)))

	err := b.Skills().Update(ctx, "Go", func(s *models.Skill) error {
		s.Name = "Golang"
		s.Rating = 5
		return nil
	})
	require.NoError(t, err)

	got, err := b.Skills().List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Go", got[0].Name)
	require.Equal(t, 5, got[0].Rating)
}

func TestUpdateMissingKeyIsNoop(t *testing.T) {
	ctx := context.Background()
	b := file.New(t.TempDir(), writable(), nil)
	require.NoError(t, b.Skills().Create(ctx, skill("Go", 3)))

	called := false
	err := b.Skills().Update(ctx, "Nope", func(*models.Skill) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	require.False(t, called)

	got, err := b.Skills().List(ctx)
	require.NoError(t, err)
	require.Equal(t, []models.Skill{skill("Go", 3)}, got)
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	b := file.New(t.TempDir(), writable(), nil)
	require.NoError(t, b.Skills().Create(ctx, skill("Go", 3)))
	require.NoError(t, b.Skills().Create(ctx, skill("SQL", 4)))

	require.NoError(t, b.Skills().Delete(ctx, "Go"))
	require.NoError(t, b.Skills().Delete(ctx, "Go"))

	got, err := b.Skills().List(ctx)
	require.NoError(t, err)
	require.Equal(t, []models.Skill{skill("SQL", 4)}, got)
}

func TestExperiencePresentRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := file.New(t.TempDir(), writable(), nil)
	exp := models.Experience{
		ID:        "acme",
		Position:  "Engineer",
		Company:   "ACME",
		StartDate: models.NewDate(2022, time.January, 3),
		EndDate:   models.MustEndDate("Present"),
	}
	require.NoError(t, b.Experiences().Create(ctx, exp))

	got, err := b.Experiences().List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.True(t, got[0].EndDate.Present)
	require.Equal(t, []string{}, got[0].Achievements)
}

func TestSitePut(t *testing.T) {
	ctx := context.Background()
	b := file.New(t.TempDir(), writable(), nil)
	cfg := models.SiteConfig{Name: "Folio", URL: "https://folio.example"}
	require.NoError(t, b.Site().Put(ctx, cfg))

	got, err := b.Site().Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "Folio", got.Name)
	require.Equal(t, []string{}, got.Keywords)
}

func TestWritesDisabledTouchNothing(t *testing.T) {
	ctx := context.Background()
	// the directory does not exist; any write attempt would create it
	dir := filepath.Join(t.TempDir(), "content")
	b := file.New(dir, probe.Fixed(probe.Result{Reason: "running on a read-only hosting platform"}), nil)

	checks := []struct {
		name string
		op   func() error
	}{
		{"create", func() error { return b.Skills().Create(ctx, skill("Go", 5)) }},
		{"update", func() error { return b.Skills().Update(ctx, "Go", func(*models.Skill) error { return nil }) }},
		{"delete", func() error { return b.Skills().Delete(ctx, "Go") }},
		{"site", func() error { return b.Site().Put(ctx, models.SiteConfig{Name: "x", URL: "y"}) }},
	}
	for _, c := range checks {
		t.Run(c.name, func(t *testing.T) {
			err := c.op()
			require.ErrorIs(t, err, repository.ErrWriteDisabled)
			var wd *repository.WriteDisabledError
			require.True(t, errors.As(err, &wd))
			require.Contains(t, err.Error(), "version control")
		})
	}

	_, err := os.Stat(dir)
	require.True(t, os.IsNotExist(err), "content dir must not be created")
}

func TestWatchReportsKind(t *testing.T) {
	dir := t.TempDir()
	b := file.New(dir, writable(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	kinds := make(chan models.Kind, 8)
	done := make(chan error, 1)
	go func() {
		done <- b.Watch(ctx, func(k models.Kind) {
			select {
			case kinds <- k:
			default:
			}
		})
	}()

	// the watcher registers asynchronously; keep writing until it notices
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	var got models.Kind
wait:
	for {
		select {
		case got = <-kinds:
			break wait
		case <-tick.C:
			require.NoError(t, os.WriteFile(filepath.Join(dir, "socials.go"), []byte("package content\n"), 0o644))
		case <-deadline:
			t.Fatal("no change reported")
		}
	}
	require.Equal(t, models.KindSocial, got)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}
