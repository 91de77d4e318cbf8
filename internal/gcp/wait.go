package gcp

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/time/rate"

	apperrors "github.com/pratik-mahalle/gcli/internal/pkg/errors"
)

const defaultPollInterval = 2 * time.Second

// Waiter paces operation polling and shows a spinner while waiting.
type Waiter struct {
	limiter  *rate.Limiter
	progress io.Writer
	timeout  time.Duration
}

// NewWaiter polls at most once per interval. Progress goes to out; pass
// io.Discard to silence it.
func NewWaiter(interval time.Duration, out io.Writer) *Waiter {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if out == nil {
		out = os.Stderr
	}
	return &Waiter{
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		progress: out,
		timeout:  30 * time.Minute,
	}
}

// Wait calls poll until it reports done. poll returns the operation
// status and any error messages the finished operation carries.
func (w *Waiter) Wait(ctx context.Context, description string, poll func(context.Context) (done bool, errs []string, err error)) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(w.progress),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	defer func() { _ = bar.Finish() }()

	for {
		done, errs, err := poll(ctx)
		if err != nil {
			return err
		}
		if done {
			if len(errs) > 0 {
				return apperrors.Tool("%s failed: %s", description, strings.Join(errs, "; "))
			}
			return nil
		}
		_ = bar.Add(1)
		if err := w.limiter.Wait(ctx); err != nil {
			return apperrors.Tool("timed out waiting for %s: %v", description, err)
		}
	}
}
