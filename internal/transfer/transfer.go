// Package transfer copies content between two backends, for moving a
// portfolio from generated files into a database and back.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/garnizeh/folio/pkg/models"
	"github.com/garnizeh/folio/pkg/repository"
)

type Options struct {
	// Kinds limits the copy; empty means every kind.
	Kinds []models.Kind
	// Prune deletes destination records whose key is absent from the source.
	Prune  bool
	Logger *slog.Logger
}

// Result counts what a copy did for one kind.
type Result struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
}

// Copy makes dst hold the records of src, kind by kind. Kinds are copied
// concurrently; the first failure cancels the rest.
func Copy(ctx context.Context, src, dst repository.ContentBackend, opts Options) (map[models.Kind]Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	kinds := opts.Kinds
	if len(kinds) == 0 {
		kinds = models.Kinds
	}

	var mu sync.Mutex
	results := make(map[models.Kind]Result, len(kinds))

	g, ctx := errgroup.WithContext(ctx)
	for _, kind := range kinds {
		g.Go(func() error {
			res, err := copyKind(ctx, kind, src, dst, opts.Prune)
			if err != nil {
				return fmt.Errorf("copy %s: %w", kind, err)
			}
			logger.Info("kind copied", "kind", kind, "from", src.Name(), "to", dst.Name(),
				"created", res.Created, "updated", res.Updated, "deleted", res.Deleted)
			mu.Lock()
			results[kind] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func copyKind(ctx context.Context, kind models.Kind, src, dst repository.ContentBackend, prune bool) (Result, error) {
	switch kind {
	case models.KindProject:
		return copyCollection(ctx, models.ProjectDescriptor, src.Projects(), dst.Projects(), prune)
	case models.KindExperience:
		return copyCollection(ctx, models.ExperienceDescriptor, src.Experiences(), dst.Experiences(), prune)
	case models.KindSkill:
		return copyCollection(ctx, models.SkillDescriptor, src.Skills(), dst.Skills(), prune)
	case models.KindContribution:
		return copyCollection(ctx, models.ContributionDescriptor, src.Contributions(), dst.Contributions(), prune)
	case models.KindSocial:
		return copyCollection(ctx, models.SocialDescriptor, src.Socials(), dst.Socials(), prune)
	case models.KindSite:
		cfg, err := src.Site().Get(ctx)
		if errors.Is(err, repository.ErrNotFound) {
			return Result{}, nil
		}
		if err != nil {
			return Result{}, err
		}
		if err := dst.Site().Put(ctx, cfg); err != nil {
			return Result{}, err
		}
		return Result{Updated: 1}, nil
	default:
		return Result{}, fmt.Errorf("unknown content kind %q", kind)
	}
}

func copyCollection[T any](ctx context.Context, desc models.Descriptor[T], src, dst repository.Collection[T], prune bool) (Result, error) {
	var res Result
	from, err := src.List(ctx)
	if err != nil {
		return res, fmt.Errorf("list source: %w", err)
	}
	to, err := dst.List(ctx)
	if err != nil {
		return res, fmt.Errorf("list destination: %w", err)
	}
	existing := make([]string, 0, len(to))
	for _, rec := range to {
		existing = append(existing, desc.Key(rec))
	}

	keep := make(map[string]bool, len(from))
	for _, rec := range from {
		key := desc.Key(rec)
		keep[key] = true
		if slices.Contains(existing, key) {
			if err := dst.Update(ctx, key, func(cur *T) error { *cur = rec; return nil }); err != nil {
				return res, fmt.Errorf("update %s: %w", key, err)
			}
			res.Updated++
			continue
		}
		if err := dst.Create(ctx, rec); err != nil {
			return res, fmt.Errorf("create %s: %w", key, err)
		}
		res.Created++
	}

	if prune {
		for _, key := range existing {
			if keep[key] {
				continue
			}
			if err := dst.Delete(ctx, key); err != nil {
				return res, fmt.Errorf("delete %s: %w", key, err)
			}
			res.Deleted++
		}
	}
	return res, nil
}
