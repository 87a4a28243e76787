// Package orchestrator runs the benchmark configuration matrix against a
// device, one configuration at a time. Each run follows the same lifecycle:
// stop any stale instance, kill it to release memory, launch with the
// configuration's extras, wait out the run window, then stop and kill again
// before the next configuration starts.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fabianterhorst/isobench/adb"
	"github.com/fabianterhorst/isobench/matrix"
	"github.com/fabianterhorst/isobench/report"
)

// Fixed lifecycle timings. The run window is a blind wait sized for a
// single benchmark pass; there is no completion signal from the app.
const (
	stopSettle   = 3 * time.Second
	killSettle   = 2 * time.Second
	runWindow    = 30 * time.Second
	progressTick = 5 * time.Second
	persistGrace = 10 * time.Second
	postRunStop  = 2 * time.Second
	postRunKill  = 1 * time.Second

	resultPollInterval = 2 * time.Second
	resultPollDeadline = 60 * time.Second
)

// Device is the narrow device-control surface the orchestrator drives.
// *adb.Bridge satisfies it.
type Device interface {
	ForceStop(ctx context.Context, pkg string) error
	Kill(ctx context.Context, pkg string) error
	StartActivity(ctx context.Context, component string, extras adb.Extras) error
	ReadFile(ctx context.Context, path string) ([]byte, error)
	FileSize(ctx context.Context, path string) (int64, error)
}

// Options configures the target app and result location.
type Options struct {
	// Package is the app's package name, used for force-stop and kill.
	Package string

	// Component is the activity to launch, in package/class form.
	Component string

	// ResultsPath is the on-device path of the results CSV.
	ResultsPath string

	// WaitStable polls the result file for size stability instead of the
	// fixed post-run persistence wait.
	WaitStable bool
}

// Orchestrator executes configurations strictly sequentially.
type Orchestrator struct {
	device Device
	opts   Options
	logger *slog.Logger

	// sleep and now are swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// New creates an Orchestrator for the given device and target app.
func New(device Device, opts Options, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		device: device,
		opts:   opts,
		logger: logger.With(slog.String("package", opts.Package)),
		sleep:  sleepContext,
		now:    time.Now,
	}
}

// RunAll executes every configuration in order, then retrieves the raw
// results CSV from the device. A launch or retrieval failure aborts
// immediately, leaving later configurations unexecuted. Stop and kill
// failures are logged and ignored; the process not running is the
// expected case.
func (o *Orchestrator) RunAll(
	ctx context.Context,
	configs []matrix.Config,
) ([]report.Record, []byte, error) {
	if err := matrix.Validate(configs); err != nil {
		return nil, nil, fmt.Errorf("invalid matrix: %w", err)
	}

	records := make([]report.Record, 0, len(configs))

	for i, cfg := range configs {
		record, err := o.runOne(ctx, i+1, len(configs), cfg)
		if err != nil {
			return nil, nil, err
		}

		records = append(records, record)
	}

	o.logger.Info("all configurations complete",
		slog.Int("total", len(configs)),
	)

	csv, err := o.device.ReadFile(ctx, o.opts.ResultsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve results: %w", err)
	}

	return records, csv, nil
}

func (o *Orchestrator) runOne(
	ctx context.Context,
	index, total int,
	cfg matrix.Config,
) (report.Record, error) {
	var record report.Record

	logger := o.logger.With(slog.String("config", cfg.Name))
	logger.Info("running configuration",
		slog.Int("index", index),
		slog.Int("total", total),
		slog.Int("scene_size", cfg.SceneSize),
		slog.String("scenario", string(cfg.Scenario)),
		slog.Bool("prepared_cache", cfg.PreparedCache),
		slog.Bool("draw_cache", cfg.DrawCache),
	)

	start := o.now()

	// Clear any stale instance before launching.
	o.bestEffort(logger, "force-stop", o.device.ForceStop(ctx, o.opts.Package))

	if err := o.sleep(ctx, stopSettle); err != nil {
		return record, err
	}

	o.bestEffort(logger, "kill", o.device.Kill(ctx, o.opts.Package))

	if err := o.sleep(ctx, killSettle); err != nil {
		return record, err
	}

	err := o.device.StartActivity(ctx, o.opts.Component, launchExtras(cfg))
	if err != nil {
		return record, fmt.Errorf("launch %s: %w", cfg.Name, err)
	}

	logger.Info("waiting for completion")

	for elapsed := progressTick; elapsed <= runWindow; elapsed += progressTick {
		if err := o.sleep(ctx, progressTick); err != nil {
			return record, err
		}

		logger.Info("run in progress", slog.Duration("elapsed", elapsed))
	}

	// The app writes its CSV after the last frame; give it time to land.
	if o.opts.WaitStable {
		if err := o.waitForResults(ctx, logger); err != nil {
			return record, err
		}
	} else {
		logger.Info("waiting for results to be saved")

		if err := o.sleep(ctx, persistGrace); err != nil {
			return record, err
		}
	}

	o.bestEffort(logger, "force-stop", o.device.ForceStop(ctx, o.opts.Package))

	if err := o.sleep(ctx, postRunStop); err != nil {
		return record, err
	}

	o.bestEffort(logger, "kill", o.device.Kill(ctx, o.opts.Package))

	if err := o.sleep(ctx, postRunKill); err != nil {
		return record, err
	}

	elapsed := o.now().Sub(start)
	logger.Info("configuration complete", slog.Duration("elapsed", elapsed))

	return report.Record{
		Name:          cfg.Name,
		SceneSize:     cfg.SceneSize,
		Scenario:      string(cfg.Scenario),
		PreparedCache: cfg.PreparedCache,
		DrawCache:     cfg.DrawCache,
		ElapsedMs:     elapsed.Milliseconds(),
	}, nil
}

// waitForResults polls the result file until its size is non-zero and
// unchanged across two consecutive polls. Giving up at the deadline is not
// an error; the fixed-wait behavior never failed here either.
func (o *Orchestrator) waitForResults(
	ctx context.Context,
	logger *slog.Logger,
) error {
	last := int64(-1)

	for waited := time.Duration(0); waited < resultPollDeadline; waited += resultPollInterval {
		size, err := o.device.FileSize(ctx, o.opts.ResultsPath)
		if err == nil && size > 0 && size == last {
			logger.Info("result file stable", slog.Int64("size", size))
			return nil
		}

		if err == nil {
			last = size
		}

		if err := o.sleep(ctx, resultPollInterval); err != nil {
			return err
		}
	}

	logger.Warn("result file never stabilized, continuing",
		slog.String("path", o.opts.ResultsPath),
	)

	return nil
}

// launchExtras encodes a configuration as the activity's intent extras.
func launchExtras(cfg matrix.Config) adb.Extras {
	var extras adb.Extras
	extras.Int("sceneSize", cfg.SceneSize).
		String("scenario", string(cfg.Scenario)).
		Bool("enablePreparedSceneCache", cfg.PreparedCache).
		Bool("enableDrawWithCache", cfg.DrawCache).
		String("interaction", "NONE").
		Int("runs", 1)

	return extras
}

func (o *Orchestrator) bestEffort(logger *slog.Logger, op string, err error) {
	if err != nil {
		logger.Debug("cleanup command failed",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
