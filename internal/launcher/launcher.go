// Package launcher implements C9: asynchronous spawn of the external
// table player, exit-code classification, and play-time measurement
// (§4.9). Grounded on the debug.Logger consumer-goroutine
// idiom (internal/diag) for the async-completion handoff, and on the
// exec.Command-driven backends in internal/videoplayer for the
// spawn/wait shape — here applied to a one-shot foreground process
// instead of a long-lived streaming pipe.
package launcher

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"asapcabinetfe/internal/diag"
	"asapcabinetfe/internal/table"
)

// Result is delivered to the caller's callback on the main thread's
// task queue after the external process exits (§4.9, §5).
type Result struct {
	Table         *table.Record
	ExitCode      int
	Broken        bool
	TimePlayed    time.Duration
	SpawnFailed   bool
	Err           error
}

// SpawnFailedError marks a fork/exec failure (§7 LauncherSpawnFailed):
// state returns to Normal without touching stats or the broken flag.
type SpawnFailedError struct {
	Err error
}

func (e *SpawnFailedError) Error() string { return fmt.Sprintf("launcher: spawn failed: %v", e.Err) }
func (e *SpawnFailedError) Unwrap() error { return e.Err }

// Launcher spawns the external player and classifies its exit.
type Launcher struct {
	log              *diag.Logger
	healthyWhitelist map[int]bool
	brokenWhitelist  map[int]bool
}

// New creates a Launcher. healthy/broken are the exit-code whitelists
// from settings (§4.9, SPEC_FULL §C.2): codes in healthy never mark the
// table broken; nonzero codes in broken always do, even if also listed
// in healthy; 0 is always healthy; anything else follows the literal
// 0-vs-nonzero rule.
func New(logger *diag.Logger, healthy, broken []int) *Launcher {
	l := &Launcher{log: logger, healthyWhitelist: map[int]bool{}, brokenWhitelist: map[int]bool{}}
	for _, c := range healthy {
		l.healthyWhitelist[c] = true
	}
	for _, c := range broken {
		l.brokenWhitelist[c] = true
	}
	return l
}

// argv assembles the player command line per §6: "{start_args}
// {vpinball_x_path} {sub_cmd} "{vpx_file}" {end_args}". The vpx file is
// passed as a single argv element so exec never re-globs or re-splits it.
func argv(playerPath, startArgs, subCmd, vpxFile, endArgs string) (string, []string) {
	var args []string
	args = append(args, splitArgs(startArgs)...)
	if subCmd != "" {
		args = append(args, subCmd)
	}
	args = append(args, vpxFile)
	args = append(args, splitArgs(endArgs)...)
	return playerPath, args
}

func splitArgs(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}

// Launch spawns the player asynchronously on a supervisor goroutine
// (§5's "per-launch process-supervisor thread") and invokes callback
// once, after the process exits, with the classified Result.
func (l *Launcher) Launch(ctx context.Context, playerPath, startArgs, subCmd, endArgs string, t *table.Record, callback func(Result)) {
	go func() {
		name, args := argv(playerPath, startArgs, subCmd, t.VPXFile, endArgs)
		cmd := exec.CommandContext(ctx, name, args...)

		start := time.Now()
		err := cmd.Start()
		if err != nil {
			l.logf(diag.LevelError, "spawn failed for %s: %v", t.VPXFile, err)
			callback(Result{Table: t, SpawnFailed: true, Err: &SpawnFailedError{Err: err}})
			return
		}

		waitErr := cmd.Wait()
		elapsed := time.Since(start)

		exitCode := 0
		if waitErr != nil {
			if exitErr, ok := waitErr.(*exec.ExitError); ok {
				exitCode = exitErr.ExitCode()
			} else {
				l.logf(diag.LevelError, "wait failed for %s: %v", t.VPXFile, waitErr)
				callback(Result{Table: t, SpawnFailed: true, Err: waitErr})
				return
			}
		}

		broken := l.classify(exitCode)
		l.logf(diag.LevelInfo, "table %s exited %d after %s (broken=%v)", t.Title, exitCode, elapsed, broken)
		callback(Result{Table: t, ExitCode: exitCode, Broken: broken, TimePlayed: elapsed})
	}()
}

// classify implements §4.9's exit-code mapping with the whitelist
// extension from SPEC_FULL §C.2: 0 is always healthy; a code in the
// broken whitelist is always broken; a code in the healthy whitelist
// (e.g. a user-abort signal) is never broken; anything else follows the
// plain 0-vs-nonzero rule.
func (l *Launcher) classify(exitCode int) bool {
	if exitCode == 0 {
		return false
	}
	if l.brokenWhitelist[exitCode] {
		return true
	}
	if l.healthyWhitelist[exitCode] {
		return false
	}
	return true
}

// ApplyStats updates t in place after a healthy run (§4.9): play_count
// increments, play_time_last is set, play_time_total accumulates, and
// is_broken clears. On a broken run only is_broken is set.
func ApplyStats(t *table.Record, r Result) {
	if r.SpawnFailed {
		return
	}
	if r.Broken {
		t.IsBroken = true
		return
	}
	t.IsBroken = false
	t.PlayCount++
	t.PlayTimeLast = float32(r.TimePlayed.Seconds())
	t.PlayTimeTotal += float32(r.TimePlayed.Seconds())
}

func (l *Launcher) logf(level diag.Level, format string, args ...interface{}) {
	if l.log != nil {
		l.log.Logf(diag.ComponentLauncher, level, format, args...)
	}
}
