// Package adb wraps the adb binary with the handful of device operations
// the orchestrator needs: activity-manager lifecycle commands and result
// file retrieval.
package adb

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

// Bridge executes commands against a single device through the adb binary.
// The zero serial targets the only attached device, matching adb itself.
type Bridge struct {
	path   string
	serial string
	logger *slog.Logger

	// run is swapped out in tests to avoid a real adb binary.
	run func(ctx context.Context, path string, args []string) ([]byte, error)
}

// New creates a Bridge using the given adb binary path ("adb" resolves via
// PATH) and optional device serial.
func New(path, serial string, logger *slog.Logger) *Bridge {
	if path == "" {
		path = "adb"
	}

	return &Bridge{
		path:   path,
		serial: serial,
		logger: logger.With(slog.String("adb", path)),
		run:    runCommand,
	}
}

func runCommand(ctx context.Context, path string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s %s: %w\nstderr: %s",
			path, strings.Join(args, " "), err, stderr.String(),
		)
	}

	return stdout.Bytes(), nil
}

// shell prefixes args with the device selector and the shell subcommand.
func (b *Bridge) shell(args ...string) []string {
	full := make([]string, 0, len(args)+3)
	if b.serial != "" {
		full = append(full, "-s", b.serial)
	}

	full = append(full, "shell")

	return append(full, args...)
}

// ForceStop stops the package via the activity manager. Callers treat the
// returned error as best-effort; the package may not be running.
func (b *Bridge) ForceStop(ctx context.Context, pkg string) error {
	_, err := b.run(ctx, b.path, b.shell("am", "force-stop", pkg))
	if err != nil {
		return fmt.Errorf("force-stop %s: %w", pkg, err)
	}

	return nil
}

// Kill kills the package's process to release its memory. Best-effort,
// like ForceStop.
func (b *Bridge) Kill(ctx context.Context, pkg string) error {
	_, err := b.run(ctx, b.path, b.shell("am", "kill", pkg))
	if err != nil {
		return fmt.Errorf("kill %s: %w", pkg, err)
	}

	return nil
}

// StartActivity launches the component with the given extras. A failure
// here means the benchmark never started, so callers must propagate it.
func (b *Bridge) StartActivity(
	ctx context.Context,
	component string,
	extras Extras,
) error {
	args := append([]string{"am", "start", "-n", component}, extras.Args()...)

	b.logger.Debug("starting activity",
		slog.String("component", component),
		slog.Any("extras", extras.Args()),
	)

	if _, err := b.run(ctx, b.path, b.shell(args...)); err != nil {
		return fmt.Errorf("start %s: %w", component, err)
	}

	return nil
}

// ReadFile returns the raw contents of a file on the device.
func (b *Bridge) ReadFile(ctx context.Context, path string) ([]byte, error) {
	out, err := b.run(ctx, b.path, b.shell("cat", path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return out, nil
}

// FileSize returns the size in bytes of a file on the device, or an error
// if the file does not exist yet.
func (b *Bridge) FileSize(ctx context.Context, path string) (int64, error) {
	out, err := b.run(ctx, b.path, b.shell("stat", "-c", "%s", path))
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}

	size, err := strconv.ParseInt(strings.TrimSpace(string(out)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("stat %s: parse size %q: %w", path, out, err)
	}

	return size, nil
}
