package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func collectChanges(t *testing.T) (func([]string), func() []string) {
	t.Helper()

	var mu sync.Mutex
	var got []string
	onChange := func(paths []string) {
		mu.Lock()
		got = append(got, paths...)
		mu.Unlock()
	}
	snapshot := func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), got...)
	}
	return onChange, snapshot
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestWatcher_DeliversDebouncedChanges(t *testing.T) {
	dir := t.TempDir()
	onChange, snapshot := collectChanges(t)

	w, err := NewWatcher(50*time.Millisecond, nil, nil, false, onChange)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if err := w.Watch([]string{dir}); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	target := filepath.Join(dir, "Main.kt")
	if err := os.WriteFile(target, []byte("fun main() {}"), 0644); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, 2*time.Second, func() bool {
		for _, p := range snapshot() {
			if p == target {
				return true
			}
		}
		return false
	}) {
		t.Errorf("Expected change notification for %s, got %v", target, snapshot())
	}
}

func TestWatcher_IgnoresNonKotlinAndTests(t *testing.T) {
	dir := t.TempDir()
	onChange, snapshot := collectChanges(t)

	w, err := NewWatcher(30*time.Millisecond, nil, []string{"*.generated.kt"}, false, onChange)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if err := w.Watch([]string{dir}); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	kept := filepath.Join(dir, "Kept.kt")
	for _, name := range []string{"notes.txt", "FooTest.kt", "Api.generated.kt", "Kept.kt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	if !waitFor(t, 2*time.Second, func() bool {
		for _, p := range snapshot() {
			if p == kept {
				return true
			}
		}
		return false
	}) {
		t.Fatalf("Expected change for %s, got %v", kept, snapshot())
	}

	for _, p := range snapshot() {
		if p != kept {
			t.Errorf("Unexpected change notification: %s", p)
		}
	}
}

func TestWatcher_RequiresCallback(t *testing.T) {
	if _, err := NewWatcher(time.Millisecond, nil, nil, false, nil); err == nil {
		t.Error("Expected error for nil callback")
	}
}

func TestShouldExcludeFile(t *testing.T) {
	w, err := NewWatcher(time.Millisecond, []string{".git"}, []string{"*.tmp.kt"}, false, func([]string) {})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	cases := map[string]bool{
		"src/Main.kt":       false,
		"script.kts":        false,
		"src/MainTest.kt":   true,
		"src/MainTests.kt":  true,
		"src/note.md":       true,
		"src/draft.tmp.kt":  true,
		"src/Main.kt.swp":   true,
		"build/gen/Main.kt": false,
	}
	for path, want := range cases {
		if got := w.shouldExcludeFile(path); got != want {
			t.Errorf("shouldExcludeFile(%q) = %v, want %v", path, got, want)
		}
	}

	if !w.shouldExcludeDir("repo/.git") {
		t.Error("Expected .git directory to be excluded")
	}
	if w.shouldExcludeDir("repo/src") {
		t.Error("Expected src directory to be watched")
	}
}

func TestWatcher_IncludeTests(t *testing.T) {
	w, err := NewWatcher(time.Millisecond, nil, nil, true, func([]string) {})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if w.shouldExcludeFile("src/MainTest.kt") {
		t.Error("Expected test files to be included when configured")
	}
}
