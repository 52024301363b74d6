// Package admin is the credential-gated entry point for content mutations.
// Every operation checks the shared secret before touching the backend and
// reports failures as *Error.
package admin

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/folio/internal/probe"
	"github.com/garnizeh/folio/pkg/models"
	"github.com/garnizeh/folio/pkg/repository"
)

type Options struct {
	// Password is compared for exact equality unless PasswordHash is set.
	Password string
	// PasswordHash is a bcrypt hash of the admin secret.
	PasswordHash string
	Env          string
	// Probe reports file writability for Status; nil means always writable.
	Probe  *probe.Probe
	Logger *slog.Logger
}

type Gateway struct {
	backend repository.ContentBackend
	opts    Options
	logger  *slog.Logger

	mu    sync.RWMutex
	hooks []func(models.Kind)
}

func New(backend repository.ContentBackend, opts Options) *Gateway {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{backend: backend, opts: opts, logger: logger}
}

// OnChange registers fn to run after every successful mutation.
func (g *Gateway) OnChange(fn func(models.Kind)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hooks = append(g.hooks, fn)
}

func (g *Gateway) changed(kind models.Kind) {
	g.mu.RLock()
	hooks := slices.Clone(g.hooks)
	g.mu.RUnlock()
	for _, fn := range hooks {
		fn(kind)
	}
}

// Authorize checks credential against the configured secret.
func (g *Gateway) Authorize(credential string) error {
	if credential == "" {
		return unauthorized()
	}
	if g.opts.PasswordHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(g.opts.PasswordHash), []byte(credential)) != nil {
			return unauthorized()
		}
		return nil
	}
	if g.opts.Password == "" || subtle.ConstantTimeCompare([]byte(credential), []byte(g.opts.Password)) != 1 {
		return unauthorized()
	}
	return nil
}

func (g *Gateway) authorize(op string, kind models.Kind, credential string) error {
	if err := g.Authorize(credential); err != nil {
		g.logger.Warn("admin request rejected", "op", op, "kind", kind)
		return err
	}
	return nil
}

// Read returns the current content of kind without a credential: a slice
// for multi-record kinds, the SiteConfig for KindSite.
func (g *Gateway) Read(ctx context.Context, kind models.Kind) (any, error) {
	var (
		v   any
		err error
	)
	switch kind {
	case models.KindProject:
		v, err = g.backend.Projects().List(ctx)
	case models.KindExperience:
		v, err = g.backend.Experiences().List(ctx)
	case models.KindSkill:
		v, err = g.backend.Skills().List(ctx)
	case models.KindContribution:
		v, err = g.backend.Contributions().List(ctx)
	case models.KindSocial:
		v, err = g.backend.Socials().List(ctx)
	case models.KindSite:
		v, err = g.backend.Site().Get(ctx)
	default:
		err = unknownKind(kind)
	}
	if err != nil {
		return nil, Normalize(err)
	}
	return v, nil
}

func (g *Gateway) List(ctx context.Context, credential string, kind models.Kind) (any, error) {
	if err := g.authorize("list", kind, credential); err != nil {
		return nil, err
	}
	return g.Read(ctx, kind)
}

// Create adds the record in payload. For KindSite it writes the configuration.
func (g *Gateway) Create(ctx context.Context, credential string, kind models.Kind, payload []byte) error {
	if err := g.authorize("create", kind, credential); err != nil {
		return err
	}
	var err error
	switch kind {
	case models.KindProject:
		err = create(ctx, g.backend.Projects(), payload)
	case models.KindExperience:
		err = create(ctx, g.backend.Experiences(), payload)
	case models.KindSkill:
		err = create(ctx, g.backend.Skills(), payload)
	case models.KindContribution:
		err = create(ctx, g.backend.Contributions(), payload)
	case models.KindSocial:
		err = create(ctx, g.backend.Socials(), payload)
	case models.KindSite:
		var cfg models.SiteConfig
		if err = decode(payload, &cfg); err == nil {
			err = g.backend.Site().Put(ctx, cfg)
		}
	default:
		err = unknownKind(kind)
	}
	return g.finish("create", kind, "", err)
}

// Update merges the partial JSON object in patch onto the record with key.
// Identity fields in patch are ignored.
func (g *Gateway) Update(ctx context.Context, credential string, kind models.Kind, key string, patch []byte) error {
	if err := g.authorize("update", kind, credential); err != nil {
		return err
	}
	if err := checkObject(patch); err != nil {
		return err
	}
	var err error
	switch kind {
	case models.KindProject:
		err = update(ctx, g.backend.Projects(), key, patch)
	case models.KindExperience:
		err = update(ctx, g.backend.Experiences(), key, patch)
	case models.KindSkill:
		err = update(ctx, g.backend.Skills(), key, patch)
	case models.KindContribution:
		err = update(ctx, g.backend.Contributions(), key, patch)
	case models.KindSocial:
		err = update(ctx, g.backend.Socials(), key, patch)
	case models.KindSite:
		var cfg models.SiteConfig
		if cfg, err = g.backend.Site().Get(ctx); err == nil {
			if cfg, err = overlay(cfg, patch); err == nil {
				err = g.backend.Site().Put(ctx, cfg)
			}
		}
	default:
		err = unknownKind(kind)
	}
	return g.finish("update", kind, key, err)
}

func (g *Gateway) Delete(ctx context.Context, credential string, kind models.Kind, key string) error {
	if err := g.authorize("delete", kind, credential); err != nil {
		return err
	}
	var err error
	switch kind {
	case models.KindProject:
		err = g.backend.Projects().Delete(ctx, key)
	case models.KindExperience:
		err = g.backend.Experiences().Delete(ctx, key)
	case models.KindSkill:
		err = g.backend.Skills().Delete(ctx, key)
	case models.KindContribution:
		err = g.backend.Contributions().Delete(ctx, key)
	case models.KindSocial:
		err = g.backend.Socials().Delete(ctx, key)
	case models.KindSite:
		err = fmt.Errorf("the site configuration cannot be deleted")
	default:
		err = unknownKind(kind)
	}
	return g.finish("delete", kind, key, err)
}

func (g *Gateway) finish(op string, kind models.Kind, key string, err error) error {
	if err != nil {
		ae := Normalize(err)
		g.logger.Error("admin operation failed", "op", op, "kind", kind, "key", key, "code", ae.Code, "error", err)
		return ae
	}
	g.logger.Info("admin operation", "op", op, "kind", kind, "key", key, "backend", g.backend.Name())
	g.changed(kind)
	return nil
}

// Status describes where content is stored and whether it can be changed.
type Status struct {
	Backend     string `json:"backend"`
	Writable    bool   `json:"writable"`
	Reason      string `json:"reason"`
	Platform    string `json:"platform,omitempty"`
	Environment string `json:"environment"`
}

func (g *Gateway) Status(ctx context.Context, credential string) (Status, error) {
	if err := g.authorize("status", "", credential); err != nil {
		return Status{}, err
	}
	st := Status{Backend: g.backend.Name(), Environment: g.opts.Env}
	if g.opts.Probe == nil {
		st.Writable = true
		st.Reason = g.backend.Name() + " backend accepts writes"
		return st, nil
	}
	r := g.opts.Probe.Evaluate(ctx)
	st.Writable, st.Reason, st.Platform = r.Writable, r.Reason, r.Platform
	return st, nil
}

func unknownKind(kind models.Kind) error {
	return invalidPayload(fmt.Sprintf("unknown content kind %q", kind), nil)
}

func checkObject(payload []byte) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return invalidPayload("payload must be a JSON object", nil)
	}
	return nil
}

func decode(payload []byte, v any) error {
	if err := checkObject(payload); err != nil {
		return err
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return invalidPayload("malformed payload: "+err.Error(), err)
	}
	return nil
}

func create[T any](ctx context.Context, c repository.Collection[T], payload []byte) error {
	var rec T
	if err := decode(payload, &rec); err != nil {
		return err
	}
	return c.Create(ctx, rec)
}

func update[T any](ctx context.Context, c repository.Collection[T], key string, patch []byte) error {
	return c.Update(ctx, key, func(rec *T) error {
		merged, err := overlay(*rec, patch)
		if err != nil {
			return err
		}
		*rec = merged
		return nil
	})
}

// overlay replaces the top-level fields of cur named in patch. Nested
// objects and lists in patch are taken whole, never merged element-wise.
func overlay[T any](cur T, patch []byte) (T, error) {
	var zero T
	var fields map[string]json.RawMessage
	if err := decode(patch, &fields); err != nil {
		return zero, err
	}
	raw, err := json.Marshal(cur)
	if err != nil {
		return zero, fmt.Errorf("encode stored record: %w", err)
	}
	base := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &base); err != nil {
		return zero, fmt.Errorf("decode stored record: %w", err)
	}
	for k, v := range fields {
		base[k] = v
	}
	merged, err := json.Marshal(base)
	if err != nil {
		return zero, fmt.Errorf("encode merged record: %w", err)
	}
	var out T
	if err := decode(merged, &out); err != nil {
		return zero, err
	}
	return out, nil
}
