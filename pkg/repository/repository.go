package repository

import (
	"context"

	"github.com/garnizeh/folio/pkg/models"
)

// Repository interfaces for portfolio content. These are the public contracts
// consumers depend on; the file and database implementations live under
// internal/repository.

// Collection stores the ordered records of one multi-record kind, addressed
// by their natural key.
type Collection[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, rec T) error
	// Update applies fn to the stored record with the given key. The key is
	// restored after fn runs, so identity cannot change through an update.
	Update(ctx context.Context, key string, fn func(*T) error) error
	Delete(ctx context.Context, key string) error
}

// SiteStore holds the singleton site configuration.
type SiteStore interface {
	Get(ctx context.Context) (models.SiteConfig, error)
	Put(ctx context.Context, s models.SiteConfig) error
}

// ContentBackend is the capability every storage backend provides. One
// implementation is chosen at process start.
type ContentBackend interface {
	Name() string
	Projects() Collection[models.Project]
	Experiences() Collection[models.Experience]
	Skills() Collection[models.Skill]
	Contributions() Collection[models.Contribution]
	Socials() Collection[models.SocialLink]
	Site() SiteStore
}
