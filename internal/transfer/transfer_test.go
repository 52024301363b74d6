package transfer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/garnizeh/folio/internal/transfer"
	"github.com/garnizeh/folio/pkg/models"
	"github.com/garnizeh/folio/pkg/repository/mock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func seed(t *testing.T) *mock.Backend {
	t.Helper()
	ctx := context.Background()
	b := mock.New()
	require.NoError(t, b.Skills().Create(ctx, models.Skill{Name: "Go", Rating: 5}))
	require.NoError(t, b.Skills().Create(ctx, models.Skill{Name: "SQL", Rating: 4}))
	require.NoError(t, b.Socials().Create(ctx, models.SocialLink{Name: "GitHub", Link: "https://github.com/me"}))
	require.NoError(t, b.Site().Put(ctx, models.SiteConfig{Name: "Folio", URL: "https://folio.example"}))
	return b
}

func TestCopyIntoEmpty(t *testing.T) {
	ctx := context.Background()
	src, dst := seed(t), mock.New()

	res, err := transfer.Copy(ctx, src, dst, transfer.Options{})
	require.NoError(t, err)
	require.Equal(t, transfer.Result{Created: 2}, res[models.KindSkill])
	require.Equal(t, transfer.Result{Created: 1}, res[models.KindSocial])
	require.Equal(t, transfer.Result{Updated: 1}, res[models.KindSite])
	require.Equal(t, transfer.Result{}, res[models.KindProject])

	skills, err := dst.Skills().List(ctx)
	require.NoError(t, err)
	require.Equal(t, []models.Skill{{Name: "Go", Rating: 5}, {Name: "SQL", Rating: 4}}, skills)

	site, err := dst.Site().Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "Folio", site.Name)
}

func TestCopyUpdatesAndPrunes(t *testing.T) {
	ctx := context.Background()
	src := seed(t)
	dst := mock.New()
	require.NoError(t, dst.Skills().Create(ctx, models.Skill{Name: "Go", Rating: 1}))
	require.NoError(t, dst.Skills().Create(ctx, models.Skill{Name: "Perl", Rating: 2}))

	res, err := transfer.Copy(ctx, src, dst, transfer.Options{Kinds: []models.Kind{models.KindSkill}})
	require.NoError(t, err)
	require.Equal(t, transfer.Result{Created: 1, Updated: 1}, res[models.KindSkill])
	require.NotContains(t, res, models.KindSocial)

	skills, err := dst.Skills().List(ctx)
	require.NoError(t, err)
	require.Len(t, skills, 3, "without prune extra records stay")

	res, err = transfer.Copy(ctx, src, dst, transfer.Options{Kinds: []models.Kind{models.KindSkill}, Prune: true})
	require.NoError(t, err)
	require.Equal(t, transfer.Result{Updated: 2, Deleted: 1}, res[models.KindSkill])

	skills, err = dst.Skills().List(ctx)
	require.NoError(t, err)
	require.Equal(t, []models.Skill{{Name: "Go", Rating: 5}, {Name: "SQL", Rating: 4}}, skills)
}

func TestCopyStopsOnFailure(t *testing.T) {
	src, dst := seed(t), mock.New()
	boom := errors.New("boom")
	dst.Err = boom

	_, err := transfer.Copy(context.Background(), src, dst, transfer.Options{})
	require.ErrorIs(t, err, boom)
}

func TestCopyUnknownKind(t *testing.T) {
	_, err := transfer.Copy(context.Background(), mock.New(), mock.New(), transfer.Options{Kinds: []models.Kind{"blog"}})
	require.Error(t, err)
}
