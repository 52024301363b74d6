// Package probe decides once, at startup, whether the running environment can
// durably write generated content files.
package probe

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"
)

// CheckFile is the scratch file written and removed by the write check.
const CheckFile = ".folio-write-check"

// DefaultTimeout bounds the write check.
const DefaultTimeout = 300 * time.Millisecond

// Platform names reported in Result.
const (
	PlatformVercel = "vercel"
	PlatformLambda = "aws-lambda"
)

// Result is the outcome of an evaluation.
type Result struct {
	Writable bool   `json:"writable"`
	Reason   string `json:"reason"`
	Platform string `json:"platform,omitempty"`
}

type Options struct {
	// Dir is the content directory the write check targets.
	Dir string
	// Development skips the write check and reports writable.
	Development bool
	// AllowWrites forces a writable result, like ALLOW_FILE_WRITES=true.
	AllowWrites bool
	Timeout     time.Duration
	LookupEnv   func(string) (string, bool)
	Getwd       func() (string, error)
	Logger      *slog.Logger
}

// Probe holds the evaluated result. Evaluate runs the checks only the first
// time it is called; later calls return the same Result.
type Probe struct {
	opts   Options
	once   sync.Once
	result Result
}

func New(opts Options) *Probe {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.LookupEnv
	}
	if opts.Getwd == nil {
		opts.Getwd = os.Getwd
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Probe{opts: opts}
}

// Fixed returns a Probe that always reports r without touching the
// environment or the filesystem.
func Fixed(r Result) *Probe {
	p := &Probe{result: r}
	p.once.Do(func() {})
	return p
}

func (p *Probe) Evaluate(ctx context.Context) Result {
	p.once.Do(func() {
		p.result = p.evaluate(ctx)
		p.opts.Logger.Info("write probe evaluated",
			"writable", p.result.Writable,
			"reason", p.result.Reason,
			"platform", p.result.Platform)
	})
	return p.result
}

func (p *Probe) env(key string) string {
	v, _ := p.opts.LookupEnv(key)
	return strings.TrimSpace(v)
}

func (p *Probe) evaluate(ctx context.Context) Result {
	if p.opts.AllowWrites || p.env("ALLOW_FILE_WRITES") == "true" {
		return Result{Writable: true, Reason: "file writes explicitly allowed"}
	}

	if p.env("VERCEL") == "1" || p.env("VERCEL_URL") != "" || p.env("VERCEL_REGION") != "" {
		return Result{Reason: "running on a read-only hosting platform", Platform: PlatformVercel}
	}
	switch p.env("VERCEL_ENV") {
	case "production", "preview":
		return Result{Reason: "running on a read-only hosting platform", Platform: PlatformVercel}
	}

	if p.env("AWS_LAMBDA_FUNCTION_NAME") != "" {
		return Result{Reason: "running in a serverless function", Platform: PlatformLambda}
	}

	if p.opts.Development {
		return Result{Writable: true, Reason: "development mode"}
	}

	if wd, err := p.opts.Getwd(); err == nil && underDir(wd, "/var/task") {
		return Result{Reason: "working directory is a serverless bundle", Platform: PlatformLambda}
	}
	return p.writeCheck(ctx)
}

func underDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (p *Probe) writeCheck(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	path := filepath.Join(p.opts.Dir, CheckFile)
	done := make(chan error, 1)
	go func() {
		err := os.WriteFile(path, []byte("ok"), 0o644)
		if err == nil {
			err = os.Remove(path)
		}
		done <- err
	}()

	select {
	case err := <-done:
		switch {
		case err == nil:
			return Result{Writable: true, Reason: "write check succeeded"}
		case IsReadOnly(err):
			return Result{Reason: "content directory is not writable: " + err.Error()}
		default:
			return Result{Reason: "write check failed: " + err.Error()}
		}
	case <-ctx.Done():
		return Result{Reason: "write check timed out"}
	}
}

// IsReadOnly reports whether err is a permission or read-only filesystem error.
func IsReadOnly(err error) bool {
	return errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, syscall.EACCES) ||
		errors.Is(err, syscall.EPERM) ||
		errors.Is(err, syscall.EROFS)
}
