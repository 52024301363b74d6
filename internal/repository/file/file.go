// Package file stores content as generated Go source files, one per kind.
//
// Every mutation re-renders the whole file for its kind. Writes are atomic per
// file (temp file then rename) but there is no locking between processes:
// two concurrent writers of the same kind race and the last rename wins.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/garnizeh/folio/internal/codegen"
	"github.com/garnizeh/folio/internal/probe"
	"github.com/garnizeh/folio/pkg/models"
	"github.com/garnizeh/folio/pkg/repository"
)

// Backend implements repository.ContentBackend over a content directory.
type Backend struct {
	dir    string
	probe  *probe.Probe
	logger *slog.Logger

	projects      *collection[models.Project]
	experiences   *collection[models.Experience]
	skills        *collection[models.Skill]
	contributions *collection[models.Contribution]
	socials       *collection[models.SocialLink]
	site          *siteStore
}

var _ repository.ContentBackend = (*Backend)(nil)

func New(dir string, p *probe.Probe, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Backend{dir: dir, probe: p, logger: logger}
	b.projects = newCollection(b, models.ProjectDescriptor)
	b.experiences = newCollection(b, models.ExperienceDescriptor)
	b.skills = newCollection(b, models.SkillDescriptor)
	b.contributions = newCollection(b, models.ContributionDescriptor)
	b.socials = newCollection(b, models.SocialDescriptor)
	site, _ := codegen.FileFor(models.KindSite)
	b.site = &siteStore{b: b, file: site}
	return b
}

func (b *Backend) Name() string { return "file" }

func (b *Backend) Dir() string { return b.dir }

func (b *Backend) Projects() repository.Collection[models.Project]       { return b.projects }
func (b *Backend) Experiences() repository.Collection[models.Experience] { return b.experiences }
func (b *Backend) Skills() repository.Collection[models.Skill]           { return b.skills }
func (b *Backend) Contributions() repository.Collection[models.Contribution] {
	return b.contributions
}
func (b *Backend) Socials() repository.Collection[models.SocialLink] { return b.socials }
func (b *Backend) Site() repository.SiteStore                        { return b.site }

// checkWritable consults the probe. It never touches the filesystem itself.
func (b *Backend) checkWritable(ctx context.Context) error {
	r := b.probe.Evaluate(ctx)
	if !r.Writable {
		return &repository.WriteDisabledError{Reason: r.Reason}
	}
	return nil
}

func (b *Backend) read(f codegen.File) ([]byte, error) {
	src, err := os.ReadFile(filepath.Join(b.dir, f.Name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	return src, nil
}

// persist replaces the file for f with src.
func (b *Backend) persist(ctx context.Context, f codegen.File, src []byte) error {
	if err := b.checkWritable(ctx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fsError("create content dir", err)
	}
	tmp, err := os.CreateTemp(b.dir, "."+f.Name+".tmp-*")
	if err != nil {
		return fsError("create temp file", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename has succeeded
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(src); err != nil {
		_ = tmp.Close()
		return fsError("write temp file", err)
	}
	if err := tmp.Close(); err != nil {
		return fsError("close temp file", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fsError("chmod temp file", err)
	}
	target := filepath.Join(b.dir, f.Name)
	if err := os.Rename(tmpName, target); err != nil {
		return fsError("replace "+f.Name, err)
	}

	b.logger.Info("content file written", "file", target, "bytes", len(src))
	return nil
}

func fsError(op string, err error) error {
	if probe.IsReadOnly(err) {
		return &repository.WriteDisabledError{Reason: "filesystem rejected the write", Cause: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

type collection[T any] struct {
	b    *Backend
	desc models.Descriptor[T]
	file codegen.File
}

func newCollection[T any](b *Backend, desc models.Descriptor[T]) *collection[T] {
	f, err := codegen.FileFor(desc.Kind)
	if err != nil {
		panic(err)
	}
	return &collection[T]{b: b, desc: desc, file: f}
}

func (c *collection[T]) List(ctx context.Context) ([]T, error) {
	src, err := c.b.read(c.file)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return []T{}, nil
	}
	recs, err := codegen.ParseList[T](c.file, src)
	if err != nil {
		return nil, err
	}
	for i := range recs {
		c.desc.Normalize(&recs[i])
	}
	return recs, nil
}

func (c *collection[T]) save(ctx context.Context, recs []T) error {
	src, err := codegen.RenderList(c.file, recs)
	if err != nil {
		return err
	}
	return c.b.persist(ctx, c.file, src)
}

func (c *collection[T]) Create(ctx context.Context, rec T) error {
	if err := c.b.checkWritable(ctx); err != nil {
		return err
	}
	c.desc.Normalize(&rec)
	if err := c.desc.Validate(rec); err != nil {
		return err
	}
	recs, err := c.List(ctx)
	if err != nil {
		return err
	}
	key := c.desc.Key(rec)
	for _, r := range recs {
		if c.desc.Key(r) == key {
			return repository.ConflictError(string(c.desc.Kind), key)
		}
	}
	return c.save(ctx, append(recs, rec))
}

// Update applies fn to the record with key. A missing key leaves the list
// unchanged but the file is still rewritten.
func (c *collection[T]) Update(ctx context.Context, key string, fn func(*T) error) error {
	if err := c.b.checkWritable(ctx); err != nil {
		return err
	}
	recs, err := c.List(ctx)
	if err != nil {
		return err
	}
	for i := range recs {
		if c.desc.Key(recs[i]) != key {
			continue
		}
		rec := recs[i]
		if err := fn(&rec); err != nil {
			return err
		}
		c.desc.SetKey(&rec, key)
		c.desc.Normalize(&rec)
		if err := c.desc.Validate(rec); err != nil {
			return err
		}
		recs[i] = rec
		break
	}
	return c.save(ctx, recs)
}

// Delete removes the record with key. Deleting a missing key is not an error.
func (c *collection[T]) Delete(ctx context.Context, key string) error {
	if err := c.b.checkWritable(ctx); err != nil {
		return err
	}
	recs, err := c.List(ctx)
	if err != nil {
		return err
	}
	kept := recs[:0]
	for _, r := range recs {
		if c.desc.Key(r) != key {
			kept = append(kept, r)
		}
	}
	return c.save(ctx, kept)
}

type siteStore struct {
	b    *Backend
	file codegen.File
}

func (s *siteStore) Get(ctx context.Context) (models.SiteConfig, error) {
	src, err := s.b.read(s.file)
	if err != nil {
		return models.SiteConfig{}, err
	}
	if src == nil {
		return models.SiteConfig{}, repository.NotFoundError(string(models.KindSite), models.SiteConfigID)
	}
	cfg, err := codegen.ParseSite(src)
	if err != nil {
		return models.SiteConfig{}, err
	}
	models.NormalizeSiteConfig(&cfg)
	return cfg, nil
}

func (s *siteStore) Put(ctx context.Context, cfg models.SiteConfig) error {
	if err := s.b.checkWritable(ctx); err != nil {
		return err
	}
	models.NormalizeSiteConfig(&cfg)
	if err := models.ValidateSiteConfig(cfg); err != nil {
		return err
	}
	src, err := codegen.RenderSite(cfg)
	if err != nil {
		return err
	}
	return s.b.persist(ctx, s.file, src)
}
