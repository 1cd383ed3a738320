package launcher

import (
	"reflect"
	"testing"
	"time"

	"asapcabinetfe/internal/config"
	"asapcabinetfe/internal/table"
)

func TestArgvAssemblesInOrder(t *testing.T) {
	name, args := argv("/usr/bin/vpinballx", "-proc", "-play", "/tables/mm.vpx", "--fullscreen")
	if name != "/usr/bin/vpinballx" {
		t.Fatalf("expected player path as argv[0], got %q", name)
	}
	want := []string{"-proc", "-play", "/tables/mm.vpx", "--fullscreen"}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("argv = %v, want %v", args, want)
	}
}

func TestArgvOmitsEmptySubCmdAndArgs(t *testing.T) {
	_, args := argv("/usr/bin/vpinballx", "", "", "/tables/mm.vpx", "")
	want := []string{"/tables/mm.vpx"}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("argv = %v, want %v", args, want)
	}
}

func TestArgvQuotesVPXFileAsSingleElement(t *testing.T) {
	_, args := argv("/usr/bin/vpinballx", "", "", "/tables/my table (v2).vpx", "")
	if len(args) != 1 || args[0] != "/tables/my table (v2).vpx" {
		t.Fatalf("expected vpx file untouched as one argv element, got %v", args)
	}
}

func TestClassifyExitCode(t *testing.T) {
	l := New(nil, []int{15}, []int{1})

	if l.classify(0) {
		t.Fatalf("exit code 0 must never be broken")
	}
	if !l.classify(1) {
		t.Fatalf("exit code in broken whitelist must be broken even if otherwise ambiguous")
	}
	if l.classify(15) {
		t.Fatalf("exit code in healthy whitelist must never be broken")
	}
	if !l.classify(7) {
		t.Fatalf("exit code outside both whitelists must follow the plain nonzero rule")
	}
}

// TestClassifyExitCodeDefaultWhitelist exercises the real default
// settings (SPEC_FULL §C.2): 130 (SIGINT) and 143 (SIGTERM) are
// user-abort codes and must never mark a table broken, while an
// unrelated nonzero code (e.g. a segfault's 139) still does.
func TestClassifyExitCodeDefaultWhitelist(t *testing.T) {
	settings := config.DefaultSettings()
	l := New(nil, settings.HealthyExitWhitelist, settings.BrokenExitWhitelist)

	if l.classify(0) {
		t.Fatalf("exit code 0 must never be broken")
	}
	if l.classify(130) {
		t.Fatalf("SIGINT (130) must not be broken by default")
	}
	if l.classify(143) {
		t.Fatalf("SIGTERM (143) must not be broken by default")
	}
	if !l.classify(139) {
		t.Fatalf("an unrelated nonzero exit code must still be broken")
	}
}

func TestApplyStatsHealthyRun(t *testing.T) {
	rec := &table.Record{IsBroken: true, PlayCount: 2, PlayTimeTotal: 10}
	ApplyStats(rec, Result{TimePlayed: 5 * time.Second})

	if rec.IsBroken {
		t.Fatalf("expected is_broken cleared after a healthy run")
	}
	if rec.PlayCount != 3 {
		t.Fatalf("expected play_count incremented to 3, got %d", rec.PlayCount)
	}
	if rec.PlayTimeLast != 5 {
		t.Fatalf("expected play_time_last = 5, got %v", rec.PlayTimeLast)
	}
	if rec.PlayTimeTotal != 15 {
		t.Fatalf("expected play_time_total accumulated to 15, got %v", rec.PlayTimeTotal)
	}
}

func TestApplyStatsBrokenRun(t *testing.T) {
	rec := &table.Record{PlayCount: 2, PlayTimeTotal: 10}
	ApplyStats(rec, Result{Broken: true})

	if !rec.IsBroken {
		t.Fatalf("expected is_broken set after a broken run")
	}
	if rec.PlayCount != 2 || rec.PlayTimeTotal != 10 {
		t.Fatalf("expected stats untouched on a broken run, got %+v", rec)
	}
}

func TestApplyStatsSpawnFailure(t *testing.T) {
	rec := &table.Record{PlayCount: 2}
	ApplyStats(rec, Result{SpawnFailed: true})

	if rec.IsBroken || rec.PlayCount != 2 {
		t.Fatalf("expected spawn failure to leave the record untouched, got %+v", rec)
	}
}
