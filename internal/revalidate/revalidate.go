// Package revalidate tells the page-rendering front end that content changed.
// Notices are queued in memory and delivered by a small worker pool; failed
// deliveries are retried with exponential backoff and then dropped.
package revalidate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/garnizeh/folio/pkg/models"
)

// TokenTTL is the lifetime of the bearer token sent with each notice.
const TokenTTL = 5 * time.Minute

// ErrMaxAttempts indicates the notice reached max attempts
var ErrMaxAttempts = errors.New("max attempts reached")

// Notice is the body POSTed to the front end.
type Notice struct {
	Kind     models.Kind `json:"kind"`
	attempts int
}

type Options struct {
	URL         string
	Secret      string
	Workers     int
	MaxAttempts int
	QueueSize   int
	Client      *http.Client
	Logger      *slog.Logger
	// Backoff returns the wait before retry n; defaults to BackoffDuration.
	Backoff func(attempt int) time.Duration
}

type Notifier struct {
	opts  Options
	queue chan Notice
	stop  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup
}

func New(opts Options) *Notifier {
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Backoff == nil {
		opts.Backoff = BackoffDuration
	}
	return &Notifier{opts: opts, queue: make(chan Notice, opts.QueueSize), stop: make(chan struct{})}
}

// Enabled reports whether a revalidation URL is configured.
func (n *Notifier) Enabled() bool { return n.opts.URL != "" }

// Enqueue schedules a notice for kind. It never blocks: when the queue is
// full the notice is dropped and false is returned.
func (n *Notifier) Enqueue(kind models.Kind) bool {
	if !n.Enabled() {
		return false
	}
	select {
	case n.queue <- Notice{Kind: kind}:
		return true
	default:
		n.opts.Logger.Warn("revalidation queue full, notice dropped", "kind", kind)
		return false
	}
}

// Start launches the worker goroutines
func (n *Notifier) Start(ctx context.Context) {
	if !n.Enabled() {
		return
	}
	for i := 0; i < n.opts.Workers; i++ {
		n.wg.Add(1)
		go n.worker(ctx, i)
	}
}

// Stop signals workers to stop and waits for them
func (n *Notifier) Stop() {
	n.once.Do(func() { close(n.stop) })
	n.wg.Wait()
}

func (n *Notifier) worker(ctx context.Context, id int) {
	defer n.wg.Done()
	for {
		select {
		case <-n.stop:
			n.opts.Logger.Info("revalidate worker stopping", "id", id)
			return
		case <-ctx.Done():
			n.opts.Logger.Info("context canceled, revalidate worker exiting", "id", id)
			return
		case notice := <-n.queue:
			n.process(ctx, notice)
		}
	}
}

// process delivers one notice, retrying until it succeeds, runs out of
// attempts, or the pool stops.
func (n *Notifier) process(ctx context.Context, notice Notice) {
	for {
		err := n.deliver(ctx, notice)
		if err == nil {
			n.opts.Logger.Info("revalidation delivered", "kind", notice.Kind, "attempts", notice.attempts+1)
			return
		}
		notice.attempts++
		if notice.attempts >= n.opts.MaxAttempts {
			n.opts.Logger.Error("revalidation dropped", "kind", notice.Kind, "err", fmt.Errorf("%w: %w", ErrMaxAttempts, err))
			return
		}
		wait := n.opts.Backoff(notice.attempts)
		n.opts.Logger.Warn("revalidation failed, retrying", "kind", notice.Kind, "attempt", notice.attempts, "backoff", wait, "err", err)

		t := time.NewTimer(wait)
		select {
		case <-t.C:
		case <-n.stop:
			t.Stop()
			return
		case <-ctx.Done():
			t.Stop()
			return
		}
	}
}

func (n *Notifier) deliver(ctx context.Context, notice Notice) error {
	token, err := Sign(n.opts.Secret, time.Now())
	if err != nil {
		return err
	}
	body, err := json.Marshal(notice)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.opts.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := n.opts.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("revalidate endpoint returned %s", resp.Status)
	}
	return nil
}

// Sign issues the HS256 bearer token that authenticates a notice.
func Sign(secret string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   "revalidate",
		Issuer:    "folio",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// BackoffDuration returns exponential backoff duration for attempt n
func BackoffDuration(attempt int) time.Duration {
	if attempt <= 0 {
		return time.Second
	}
	max := 5 * time.Minute
	// 2^30s is past the cap and the shift stays far from overflow
	if attempt > 30 {
		return max
	}
	// simple exponential: base 2^attempt seconds, capped
	d := time.Duration(1<<uint(attempt)) * time.Second
	if d > max {
		return max
	}
	return d
}
