// Package probe runs preflight checks before the service accepts requests.
package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"voxa/pkg/store"
)

// checkTimeout bounds each individual check.
const checkTimeout = 5 * time.Second

// Check performs one preflight check. It returns nil on success.
type Check func(ctx context.Context) error

// Probe is a named startup check. Critical probes abort startup on failure.
type Probe struct {
	Name     string
	Check    Check
	Critical bool
}

// Result holds the outcome of a single probe.
type Result struct {
	Probe    Probe
	Error    error
	Duration time.Duration
}

// Run executes the probes in order, bounding each one with its own timeout.
func Run(ctx context.Context, probes []Probe) []Result {
	results := make([]Result, len(probes))
	for i, p := range probes {
		start := time.Now()
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := p.Check(checkCtx)
		cancel()
		results[i] = Result{Probe: p, Error: err, Duration: time.Since(start)}
	}
	return results
}

// Summarize logs every result and returns a combined error when any
// critical probe failed.
func Summarize(results []Result) error {
	var critical []error

	slog.Info("Preflight checks")
	for _, r := range results {
		status := "PASS"
		if r.Error != nil {
			status = "FAIL"
		}
		msg := fmt.Sprintf("[%s] %-20s (%v)", status, r.Probe.Name, r.Duration.Round(time.Millisecond))
		if r.Error != nil {
			slog.Error(msg, "error", r.Error)
			if r.Probe.Critical {
				critical = append(critical, fmt.Errorf("%s: %w", r.Probe.Name, r.Error))
			}
		} else {
			slog.Info(msg)
		}
	}

	return errors.Join(critical...)
}

// Storage checks that the profile store answers a listing. Critical: a
// service that cannot reach its store is not worth starting.
func Storage(s store.ProfileStore) Probe {
	return Probe{
		Name:     "profile storage",
		Critical: true,
		Check: func(ctx context.Context) error {
			_, err := s.List(ctx)
			return err
		},
	}
}

// registry is satisfied by both the TTS and STT registries.
type registry interface {
	Engines() []string
}

// Engine checks that the configured default engine is registered.
func Engine(kind, want string, reg registry) Probe {
	return Probe{
		Name:     kind + " engine",
		Critical: true,
		Check: func(ctx context.Context) error {
			if slices.Contains(reg.Engines(), want) {
				return nil
			}
			return fmt.Errorf("engine %q not registered (have %v)", want, reg.Engines())
		},
	}
}

// AudioDir checks that the audio base directory is writable. Non-critical:
// inline synthesis still works without it.
func AudioDir(baseDir string) Probe {
	return Probe{
		Name: "audio directory",
		Check: func(ctx context.Context) error {
			if err := os.MkdirAll(baseDir, 0755); err != nil {
				return err
			}
			marker := filepath.Join(baseDir, ".voxa-write-check")
			if err := os.WriteFile(marker, nil, 0644); err != nil {
				return err
			}
			return os.Remove(marker)
		},
	}
}
