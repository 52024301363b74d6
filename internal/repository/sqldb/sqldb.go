// Package sqldb stores content in a relational database, one table per kind.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/garnizeh/folio/internal/db"
	"github.com/garnizeh/folio/pkg/models"
	"github.com/garnizeh/folio/pkg/repository"
)

// Backend implements repository.ContentBackend over *db.DB.
type Backend struct {
	db     *db.DB
	logger *slog.Logger

	projects      *table[models.Project, projectRow, *projectRow]
	experiences   *table[models.Experience, experienceRow, *experienceRow]
	skills        *table[models.Skill, skillRow, *skillRow]
	contributions *table[models.Contribution, contributionRow, *contributionRow]
	socials       *table[models.SocialLink, socialRow, *socialRow]
	site          *siteStore
}

var _ repository.ContentBackend = (*Backend)(nil)

func New(d *db.DB, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Backend{db: d, logger: logger}
	b.projects = &table[models.Project, projectRow, *projectRow]{
		db: d, logger: logger, desc: models.ProjectDescriptor,
		name: "projects", keyCol: "id", columns: projectColumns,
		toRow: projectToRow, fromRow: rowToProject,
	}
	b.experiences = &table[models.Experience, experienceRow, *experienceRow]{
		db: d, logger: logger, desc: models.ExperienceDescriptor,
		name: "experience", keyCol: "id", columns: experienceColumns,
		toRow: experienceToRow, fromRow: rowToExperience,
	}
	b.skills = &table[models.Skill, skillRow, *skillRow]{
		db: d, logger: logger, desc: models.SkillDescriptor,
		name: "skills", keyCol: "name", columns: skillColumns, surrogate: true,
		toRow: skillToRow, fromRow: rowToSkill,
	}
	b.contributions = &table[models.Contribution, contributionRow, *contributionRow]{
		db: d, logger: logger, desc: models.ContributionDescriptor,
		name: "contributions", keyCol: "repo", columns: contributionColumns, surrogate: true,
		toRow: contributionToRow, fromRow: rowToContribution,
	}
	b.socials = &table[models.SocialLink, socialRow, *socialRow]{
		db: d, logger: logger, desc: models.SocialDescriptor,
		name: "socials", keyCol: "name", columns: socialColumns, surrogate: true,
		toRow: socialToRow, fromRow: rowToSocial,
	}
	b.site = &siteStore{db: d}
	return b
}

func (b *Backend) Name() string { return "database" }

func (b *Backend) Projects() repository.Collection[models.Project]       { return b.projects }
func (b *Backend) Experiences() repository.Collection[models.Experience] { return b.experiences }
func (b *Backend) Skills() repository.Collection[models.Skill]           { return b.skills }
func (b *Backend) Contributions() repository.Collection[models.Contribution] {
	return b.contributions
}
func (b *Backend) Socials() repository.Collection[models.SocialLink] { return b.socials }
func (b *Backend) Site() repository.SiteStore                        { return b.site }

// rowPtr is implemented by pointers to row structs.
type rowPtr[R any] interface {
	*R
	dest() []any
}

type rowArgs interface {
	args() []any
}

// table maps one multi-record kind to its table. Tables with a surrogate key
// get a generated UUID id; the natural key column is UNIQUE and used for
// lookups. Other tables use the natural key as id.
type table[T any, R rowArgs, P rowPtr[R]] struct {
	db        *db.DB
	logger    *slog.Logger
	desc      models.Descriptor[T]
	name      string
	keyCol    string
	columns   []string
	surrogate bool
	toRow     func(T) R
	fromRow   func(R) T
}

func (t *table[T, R, P]) List(ctx context.Context) ([]T, error) {
	q := `SELECT ` + strings.Join(t.columns, ", ") + ` FROM ` + t.name + ` ORDER BY display_order, id`
	rows, err := t.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var r R
		if err := rows.Scan(P(&r).dest()...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.name, err)
		}
		out = append(out, t.fromRow(r))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	return out, nil
}

// resolve maps a natural key to the row id.
func (t *table[T, R, P]) resolve(ctx context.Context, key string) (any, error) {
	q := `SELECT id FROM ` + t.name + ` WHERE ` + t.keyCol + ` = ?`
	var (
		err error
		id  any
	)
	if t.surrogate {
		var u uuid.UUID
		err = t.db.QueryRow(ctx, q, key).Scan(&u)
		id = u
	} else {
		var s string
		err = t.db.QueryRow(ctx, q, key).Scan(&s)
		id = s
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.NotFoundError(string(t.desc.Kind), key)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve %s %q: %w", t.desc.Kind, key, err)
	}
	return id, nil
}

func (t *table[T, R, P]) Create(ctx context.Context, rec T) error {
	t.desc.Normalize(&rec)
	if err := t.desc.Validate(rec); err != nil {
		return err
	}
	key := t.desc.Key(rec)
	if _, err := t.resolve(ctx, key); err == nil {
		return repository.ConflictError(string(t.desc.Kind), key)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	cols := t.columns
	args := t.toRow(rec).args()
	if t.surrogate {
		cols = append([]string{"id"}, cols...)
		args = append([]any{uuid.New()}, args...)
	}
	q := `INSERT INTO ` + t.name + ` (` + strings.Join(cols, ", ") + `, display_order) VALUES (` +
		placeholders(len(cols)) + `, (SELECT COALESCE(MAX(display_order), 0) + 1 FROM ` + t.name + `))`
	if _, err := t.db.Exec(ctx, q, args...); err != nil {
		return fmt.Errorf("insert %s: %w", t.desc.Kind, err)
	}
	t.logger.Info("content created", "kind", t.desc.Kind, "key", key)
	return nil
}

// Update applies fn to the record with key; a missing key is ErrNotFound.
func (t *table[T, R, P]) Update(ctx context.Context, key string, fn func(*T) error) error {
	id, err := t.resolve(ctx, key)
	if err != nil {
		return err
	}

	var r R
	q := `SELECT ` + strings.Join(t.columns, ", ") + ` FROM ` + t.name + ` WHERE id = ?`
	if err := t.db.QueryRow(ctx, q, id).Scan(P(&r).dest()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.NotFoundError(string(t.desc.Kind), key)
		}
		return fmt.Errorf("load %s %q: %w", t.desc.Kind, key, err)
	}
	rec := t.fromRow(r)
	if err := fn(&rec); err != nil {
		return err
	}
	t.desc.SetKey(&rec, key)
	t.desc.Normalize(&rec)
	if err := t.desc.Validate(rec); err != nil {
		return err
	}

	sets := make([]string, len(t.columns))
	for i, c := range t.columns {
		sets[i] = c + " = ?"
	}
	q = `UPDATE ` + t.name + ` SET ` + strings.Join(sets, ", ") + `, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	args := append(t.toRow(rec).args(), id)
	if _, err := t.db.Exec(ctx, q, args...); err != nil {
		return fmt.Errorf("update %s %q: %w", t.desc.Kind, key, err)
	}
	t.logger.Info("content updated", "kind", t.desc.Kind, "key", key)
	return nil
}

// Delete removes the record with key; a missing key is ErrNotFound.
func (t *table[T, R, P]) Delete(ctx context.Context, key string) error {
	id, err := t.resolve(ctx, key)
	if err != nil {
		return err
	}
	res, err := t.db.Exec(ctx, `DELETE FROM `+t.name+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete %s %q: %w", t.desc.Kind, key, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.NotFoundError(string(t.desc.Kind), key)
	}
	t.logger.Info("content deleted", "kind", t.desc.Kind, "key", key)
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

type siteStore struct {
	db *db.DB
}

func (s *siteStore) Get(ctx context.Context) (models.SiteConfig, error) {
	var r siteRow
	q := `SELECT ` + strings.Join(siteColumns, ", ") + ` FROM site_config WHERE id = ?`
	err := s.db.QueryRow(ctx, q, models.SiteConfigID).Scan(r.dest()...)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SiteConfig{}, repository.NotFoundError(string(models.KindSite), models.SiteConfigID)
	}
	if err != nil {
		return models.SiteConfig{}, fmt.Errorf("load site config: %w", err)
	}
	return rowToSite(r), nil
}

// Put upserts the singleton row.
func (s *siteStore) Put(ctx context.Context, cfg models.SiteConfig) error {
	models.NormalizeSiteConfig(&cfg)
	if err := models.ValidateSiteConfig(cfg); err != nil {
		return err
	}
	sets := make([]string, len(siteColumns))
	for i, c := range siteColumns {
		sets[i] = c + " = excluded." + c
	}
	q := `INSERT INTO site_config (id, ` + strings.Join(siteColumns, ", ") + `) VALUES (?, ` +
		placeholders(len(siteColumns)) + `) ON CONFLICT (id) DO UPDATE SET ` +
		strings.Join(sets, ", ") + `, updated_at = CURRENT_TIMESTAMP`
	args := append([]any{models.SiteConfigID}, siteToRow(cfg).args()...)
	if _, err := s.db.Exec(ctx, q, args...); err != nil {
		return fmt.Errorf("save site config: %w", err)
	}
	return nil
}
