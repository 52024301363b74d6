package mock

import (
	"context"
	"sync"

	"github.com/garnizeh/folio/pkg/models"
	"github.com/garnizeh/folio/pkg/repository"
)

// Backend is an in-memory ContentBackend for handler and gateway tests.
// Setting Err makes every call fail with it; Calls counts backend calls.
type Backend struct {
	mu    sync.Mutex
	Err   error
	Calls int

	projects      *collection[models.Project]
	experiences   *collection[models.Experience]
	skills        *collection[models.Skill]
	contributions *collection[models.Contribution]
	socials       *collection[models.SocialLink]
	site          *siteStore
}

var _ repository.ContentBackend = (*Backend)(nil)

func New() *Backend {
	b := &Backend{}
	b.projects = &collection[models.Project]{b: b, desc: models.ProjectDescriptor}
	b.experiences = &collection[models.Experience]{b: b, desc: models.ExperienceDescriptor}
	b.skills = &collection[models.Skill]{b: b, desc: models.SkillDescriptor}
	b.contributions = &collection[models.Contribution]{b: b, desc: models.ContributionDescriptor}
	b.socials = &collection[models.SocialLink]{b: b, desc: models.SocialDescriptor}
	b.site = &siteStore{b: b}
	return b
}

func (b *Backend) Name() string { return "memory" }

func (b *Backend) Projects() repository.Collection[models.Project]       { return b.projects }
func (b *Backend) Experiences() repository.Collection[models.Experience] { return b.experiences }
func (b *Backend) Skills() repository.Collection[models.Skill]           { return b.skills }
func (b *Backend) Contributions() repository.Collection[models.Contribution] {
	return b.contributions
}
func (b *Backend) Socials() repository.Collection[models.SocialLink] { return b.socials }
func (b *Backend) Site() repository.SiteStore                        { return b.site }

// enter locks the backend and records a call; callers must unlock.
func (b *Backend) enter() error {
	b.mu.Lock()
	b.Calls++
	return b.Err
}

type collection[T any] struct {
	b    *Backend
	desc models.Descriptor[T]
	recs []T
}

func (c *collection[T]) List(ctx context.Context) ([]T, error) {
	err := c.b.enter()
	defer c.b.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := make([]T, len(c.recs))
	copy(out, c.recs)
	return out, nil
}

func (c *collection[T]) Create(ctx context.Context, rec T) error {
	err := c.b.enter()
	defer c.b.mu.Unlock()
	if err != nil {
		return err
	}
	c.desc.Normalize(&rec)
	if err := c.desc.Validate(rec); err != nil {
		return err
	}
	if c.find(c.desc.Key(rec)) >= 0 {
		return repository.ConflictError(string(c.desc.Kind), c.desc.Key(rec))
	}
	c.recs = append(c.recs, rec)
	return nil
}

func (c *collection[T]) Update(ctx context.Context, key string, fn func(*T) error) error {
	err := c.b.enter()
	defer c.b.mu.Unlock()
	if err != nil {
		return err
	}
	i := c.find(key)
	if i < 0 {
		return repository.NotFoundError(string(c.desc.Kind), key)
	}
	rec := c.recs[i]
	if err := fn(&rec); err != nil {
		return err
	}
	c.desc.SetKey(&rec, key)
	c.desc.Normalize(&rec)
	if err := c.desc.Validate(rec); err != nil {
		return err
	}
	c.recs[i] = rec
	return nil
}

func (c *collection[T]) Delete(ctx context.Context, key string) error {
	err := c.b.enter()
	defer c.b.mu.Unlock()
	if err != nil {
		return err
	}
	i := c.find(key)
	if i < 0 {
		return repository.NotFoundError(string(c.desc.Kind), key)
	}
	c.recs = append(c.recs[:i], c.recs[i+1:]...)
	return nil
}

func (c *collection[T]) find(key string) int {
	for i, r := range c.recs {
		if c.desc.Key(r) == key {
			return i
		}
	}
	return -1
}

type siteStore struct {
	b   *Backend
	cfg *models.SiteConfig
}

func (s *siteStore) Get(ctx context.Context) (models.SiteConfig, error) {
	err := s.b.enter()
	defer s.b.mu.Unlock()
	if err != nil {
		return models.SiteConfig{}, err
	}
	if s.cfg == nil {
		return models.SiteConfig{}, repository.NotFoundError(string(models.KindSite), models.SiteConfigID)
	}
	return *s.cfg, nil
}

func (s *siteStore) Put(ctx context.Context, cfg models.SiteConfig) error {
	err := s.b.enter()
	defer s.b.mu.Unlock()
	if err != nil {
		return err
	}
	models.NormalizeSiteConfig(&cfg)
	if err := models.ValidateSiteConfig(cfg); err != nil {
		return err
	}
	s.cfg = &cfg
	return nil
}
