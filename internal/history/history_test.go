package history

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_SaveAndLoadSnapshots(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := store.SaveSnapshot("projA", Snapshot{
			Timestamp:    base.Add(time.Duration(i) * time.Hour),
			FileCount:    10 + i,
			FindingCount: i,
			DurationMS:   42,
		})
		if err != nil {
			t.Fatalf("SaveSnapshot failed: %v", err)
		}
	}
	if err := store.SaveSnapshot("projB", Snapshot{Timestamp: base}); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	snaps, err := store.LoadSnapshots("projA", time.Time{})
	if err != nil {
		t.Fatalf("LoadSnapshots failed: %v", err)
	}
	if len(snaps) != 3 {
		t.Fatalf("Expected 3 snapshots for projA, got %d", len(snaps))
	}
	for i := 1; i < len(snaps); i++ {
		if snaps[i].Timestamp.Before(snaps[i-1].Timestamp) {
			t.Error("Expected snapshots in ascending timestamp order")
		}
	}
	if snaps[0].ScanID == "" {
		t.Error("Expected a generated scan id")
	}
	if snaps[2].FileCount != 12 || snaps[2].FindingCount != 2 {
		t.Errorf("Unexpected snapshot content: %+v", snaps[2])
	}
}

func TestStore_LoadSnapshotsSince(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		err := store.SaveSnapshot("proj", Snapshot{
			Timestamp: base.Add(time.Duration(i) * 24 * time.Hour),
		})
		if err != nil {
			t.Fatalf("SaveSnapshot failed: %v", err)
		}
	}

	snaps, err := store.LoadSnapshots("proj", base.Add(36*time.Hour))
	if err != nil {
		t.Fatalf("LoadSnapshots failed: %v", err)
	}
	if len(snaps) != 2 {
		t.Errorf("Expected 2 snapshots since cutoff, got %d", len(snaps))
	}
}

func TestStore_UpsertSameScanID(t *testing.T) {
	store := openTestStore(t)

	snap := Snapshot{
		ScanID:       "scan-1",
		Timestamp:    time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		FindingCount: 1,
	}
	if err := store.SaveSnapshot("proj", snap); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	snap.FindingCount = 7
	if err := store.SaveSnapshot("proj", snap); err != nil {
		t.Fatalf("SaveSnapshot upsert failed: %v", err)
	}

	snaps, err := store.LoadSnapshots("proj", time.Time{})
	if err != nil {
		t.Fatalf("LoadSnapshots failed: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("Expected upsert to keep 1 snapshot, got %d", len(snaps))
	}
	if snaps[0].FindingCount != 7 {
		t.Errorf("Expected updated finding count 7, got %d", snaps[0].FindingCount)
	}
}

func TestStore_RejectsUnsupportedSchema(t *testing.T) {
	store := openTestStore(t)

	err := store.SaveSnapshot("proj", Snapshot{SchemaVersion: SchemaVersion + 1})
	if err == nil {
		t.Error("Expected error for unsupported schema version")
	}
}

func TestBuildTrendReport(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	snaps := []Snapshot{
		{Timestamp: base, FileCount: 10, FindingCount: 4},
		{Timestamp: base.Add(12 * time.Hour), FileCount: 11, FindingCount: 2},
		{Timestamp: base.Add(48 * time.Hour), FileCount: 11, FindingCount: 6},
	}

	report, err := BuildTrendReport(snaps, 24*time.Hour)
	if err != nil {
		t.Fatalf("BuildTrendReport failed: %v", err)
	}

	if report.ScanCount != 3 {
		t.Errorf("Expected 3 points, got %d", report.ScanCount)
	}
	if report.Points[1].DeltaFindings != -2 || report.Points[1].DeltaFiles != 1 {
		t.Errorf("Unexpected deltas: %+v", report.Points[1])
	}
	// Second point averages over both snapshots inside the window.
	if report.Points[1].AvgFindings != 3 {
		t.Errorf("Expected moving average 3, got %v", report.Points[1].AvgFindings)
	}
	// Third point is alone in its window.
	if report.Points[2].AvgFindings != 6 {
		t.Errorf("Expected moving average 6, got %v", report.Points[2].AvgFindings)
	}
}

func TestBuildTrendReport_Empty(t *testing.T) {
	if _, err := BuildTrendReport(nil, time.Hour); err == nil {
		t.Error("Expected error for empty snapshot list")
	}
}
