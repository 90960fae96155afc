package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/pders01/vidrank/internal/catalog"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	tmpDir, err := os.MkdirTemp("", "store-test-*")
	if err != nil {
		t.Fatal(err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	store, err := NewStore(dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatal(err)
	}

	cleanup := func() {
		store.Close()
		os.RemoveAll(tmpDir)
	}

	return store, cleanup
}

func testSnapshot(ts time.Time) *Snapshot {
	ch := catalog.Channel{Subscribers: 1200, TotalViews: 90000}
	ranked := []catalog.Video{
		{ID: "v1", CurrentRank: 1, Views: 500, Likes: 40},
		{ID: "v2", CurrentRank: 2, Views: 300, Likes: 12},
	}
	return NewSnapshot(ts, ch, ranked)
}

func TestStore_SaveAndLoadSnapshot(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ts := time.Date(2026, 2, 2, 15, 4, 5, 0, time.UTC)
	if err := store.SaveSnapshot("UCtest", testSnapshot(ts)); err != nil {
		t.Fatalf("failed to save snapshot: %v", err)
	}

	loaded, err := store.LoadSnapshot("UCtest")
	if err != nil {
		t.Fatalf("failed to load snapshot: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected snapshot, got nil")
	}

	if !loaded.Timestamp.Equal(ts) {
		t.Errorf("expected timestamp %v, got %v", ts, loaded.Timestamp)
	}
	if loaded.LastSubscribers != 1200 {
		t.Errorf("expected 1200 subscribers, got %d", loaded.LastSubscribers)
	}
	if loaded.LastTotalLikes != 52 {
		t.Errorf("expected derived total likes 52, got %d", loaded.LastTotalLikes)
	}
	if len(loaded.Videos) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(loaded.Videos))
	}
	if loaded.Videos[0].ID != "v1" || loaded.Videos[0].CurrentRank != 1 {
		t.Errorf("unexpected first video projection: %+v", loaded.Videos[0])
	}
}

func TestStore_LoadSnapshot_AbsentIsNotAnError(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	snap, err := store.LoadSnapshot("never-saved")
	if err != nil {
		t.Fatalf("absent snapshot must not error: %v", err)
	}
	if snap != nil {
		t.Errorf("expected nil snapshot, got %+v", snap)
	}
}

func TestStore_LoadSnapshot_CorruptBlobFallsBack(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(snapshotsBucket).Put(snapshotKey("UCbad"), []byte("{not json"))
	})
	if err != nil {
		t.Fatal(err)
	}

	snap, err := store.LoadSnapshot("UCbad")
	if err != nil {
		t.Fatalf("corrupt snapshot must degrade, not error: %v", err)
	}
	if snap != nil {
		t.Errorf("expected nil snapshot for corrupt blob, got %+v", snap)
	}
}

func TestStore_SaveSnapshot_Overwrites(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	first := testSnapshot(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if err := store.SaveSnapshot("UCtest", first); err != nil {
		t.Fatal(err)
	}

	second := NewSnapshot(
		time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		catalog.Channel{Subscribers: 1300},
		[]catalog.Video{{ID: "v9", CurrentRank: 1, Views: 7}},
	)
	if err := store.SaveSnapshot("UCtest", second); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.LoadSnapshot("UCtest")
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Videos) != 1 || loaded.Videos[0].ID != "v9" {
		t.Errorf("snapshot was merged instead of replaced: %+v", loaded.Videos)
	}
}

func TestStore_SaveSnapshot_IdenticalInputIdenticalBlob(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	snap := testSnapshot(time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC))

	if err := store.SaveSnapshot("UCtest", snap); err != nil {
		t.Fatal(err)
	}
	firstBlob, err := store.RawSnapshot("UCtest")
	if err != nil {
		t.Fatal(err)
	}

	if err := store.SaveSnapshot("UCtest", snap); err != nil {
		t.Fatal(err)
	}
	secondBlob, err := store.RawSnapshot("UCtest")
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(firstBlob, secondBlob) {
		t.Error("saving identical input twice produced different blobs")
	}
}

func TestStore_SnapshotBlobLayout(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	if err := store.SaveSnapshot("UCtest", testSnapshot(time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC))); err != nil {
		t.Fatal(err)
	}

	raw, err := store.RawSnapshot("UCtest")
	if err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{
		`"timestamp"`, `"lastTotalViews"`, `"lastTotalLikes"`,
		`"lastSubscribers"`, `"videos"`, `"currentRank"`,
	} {
		if !bytes.Contains(raw, []byte(key)) {
			t.Errorf("persisted blob missing %s: %s", key, raw)
		}
	}
}

func TestStore_DeleteSnapshot(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	if err := store.SaveSnapshot("UCtest", testSnapshot(time.Now())); err != nil {
		t.Fatal(err)
	}
	if _, err := store.BumpRefreshCount("UCtest", "2026-02-02", time.Now()); err != nil {
		t.Fatal(err)
	}

	if err := store.DeleteSnapshot("UCtest"); err != nil {
		t.Fatalf("failed to delete snapshot: %v", err)
	}

	snap, err := store.LoadSnapshot("UCtest")
	if err != nil {
		t.Fatal(err)
	}
	if snap != nil {
		t.Error("snapshot survived deletion")
	}

	stats, err := store.RefreshStats("UCtest")
	if err != nil {
		t.Fatal(err)
	}
	if stats.Count != 0 {
		t.Errorf("refresh stats survived deletion: %+v", stats)
	}
}

func TestStore_BumpRefreshCount_SameDayIncrements(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	at := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)
	for i := 1; i <= 3; i++ {
		stats, err := store.BumpRefreshCount("UCtest", "2026-02-02", at)
		if err != nil {
			t.Fatal(err)
		}
		if stats.Count != i {
			t.Errorf("expected count %d, got %d", i, stats.Count)
		}
	}
}

func TestStore_BumpRefreshCount_NewDayResets(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	if _, err := store.BumpRefreshCount("UCtest", "2026-02-02", time.Now()); err != nil {
		t.Fatal(err)
	}
	if _, err := store.BumpRefreshCount("UCtest", "2026-02-02", time.Now()); err != nil {
		t.Fatal(err)
	}

	stats, err := store.BumpRefreshCount("UCtest", "2026-02-03", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Count != 1 {
		t.Errorf("expected reset count 1 on new day, got %d", stats.Count)
	}
	if stats.Day != "2026-02-03" {
		t.Errorf("expected day rollover, got %s", stats.Day)
	}
}

func TestSnapshot_PriorVideosIndexesByID(t *testing.T) {
	snap := testSnapshot(time.Now())

	prior := snap.PriorVideos()
	if len(prior) != 2 {
		t.Fatalf("expected 2 prior videos, got %d", len(prior))
	}
	if prior["v1"].Rank != 1 || prior["v1"].Views != 500 {
		t.Errorf("unexpected prior record for v1: %+v", prior["v1"])
	}

	var nilSnap *Snapshot
	if nilSnap.PriorVideos() != nil {
		t.Error("nil snapshot should yield nil prior map")
	}
	if nilSnap.PriorChannel() != nil {
		t.Error("nil snapshot should yield nil prior channel")
	}
}
