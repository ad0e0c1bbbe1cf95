package usecase

import (
	"fmt"
	"log/slog"

	"WardrobeScanner/internal/domain"
	"WardrobeScanner/internal/ports"
)

// phaseTracker reports progress and refuses to move an import backwards.
type phaseTracker struct {
	observer ports.ProgressObserver
	current  domain.ImportPhase
	started  bool
}

func newPhaseTracker(observer ports.ProgressObserver) *phaseTracker {
	return &phaseTracker{observer: observer}
}

func (t *phaseTracker) advance(next domain.ImportPhase, progress domain.Progress) error {
	if t.started && !t.current.CanAdvance(next) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrPhaseRegression, t.current, next)
	}
	t.current = next
	t.started = true
	t.report(progress)
	return nil
}

// report publishes a counter update within the current phase.
func (t *phaseTracker) report(progress domain.Progress) {
	if t.observer == nil {
		return
	}
	progress.Phase = t.current
	t.observer.OnProgress(progress)
}

// LogProgress returns an observer that writes every update to logger.
func LogProgress(logger *slog.Logger) ports.ProgressObserver {
	return ports.ObserverFunc(func(p domain.Progress) {
		if logger == nil {
			return
		}
		logger.Info("import progress",
			"phase", p.Phase.String(),
			"processed", p.Processed,
			"total", p.Total,
			"found", p.Found,
		)
	})
}
