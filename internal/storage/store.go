package storage

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/pders01/vidrank/internal/debuglog"
)

var (
	snapshotsBucket = []byte("snapshots")
	metaBucket      = []byte("metadata")
)

// Store persists one snapshot blob per channel plus refresh metadata.
type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{snapshotsBucket, metaBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func snapshotKey(channelID string) []byte {
	return []byte("snapshot:" + channelID)
}

func refreshKey(channelID string) []byte {
	return []byte("refresh:" + channelID)
}

// SaveSnapshot overwrites the channel's snapshot. Callers must only
// invoke this after a fully successful fetch+rank+diff cycle; a run
// that aborts mid-fetch never reaches here.
func (s *Store) SaveSnapshot(channelID string, snap *Snapshot) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(snapshotsBucket)
		data, err := json.Marshal(snap)
		if err != nil {
			return err
		}
		return b.Put(snapshotKey(channelID), data)
	})
}

// LoadSnapshot returns the previous snapshot, or (nil, nil) when none
// exists. An unparsable blob also yields (nil, nil): corruption
// degrades to first observation so the current cycle still renders.
func (s *Store) LoadSnapshot(channelID string) (*Snapshot, error) {
	var snap *Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(snapshotsBucket)
		data := b.Get(snapshotKey(channelID))
		if data == nil {
			return nil
		}
		var decoded Snapshot
		if err := json.Unmarshal(data, &decoded); err != nil {
			debuglog.Warnf("discarding unparsable snapshot for %s: %v", channelID, err)
			return nil
		}
		snap = &decoded
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	return snap, nil
}

// DeleteSnapshot removes the channel's baseline and refresh counters.
func (s *Store) DeleteSnapshot(channelID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(snapshotsBucket).Delete(snapshotKey(channelID)); err != nil {
			return err
		}
		return tx.Bucket(metaBucket).Delete(refreshKey(channelID))
	})
}

// RefreshStats reads the channel's refresh counters. Missing or
// unparsable entries come back zero-valued.
func (s *Store) RefreshStats(channelID string) (RefreshStats, error) {
	var stats RefreshStats
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(metaBucket).Get(refreshKey(channelID))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &stats); err != nil {
			stats = RefreshStats{}
		}
		return nil
	})
	if err != nil {
		return RefreshStats{}, fmt.Errorf("loading refresh stats: %w", err)
	}
	return stats, nil
}

// BumpRefreshCount records a completed refresh. The counter resets
// when day differs from the stored one, so "refreshed today" follows
// the configured timezone's day boundary.
func (s *Store) BumpRefreshCount(channelID, day string, at time.Time) (RefreshStats, error) {
	var stats RefreshStats
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(metaBucket)
		if data := b.Get(refreshKey(channelID)); data != nil {
			if err := json.Unmarshal(data, &stats); err != nil {
				stats = RefreshStats{}
			}
		}
		if stats.Day != day {
			stats = RefreshStats{Day: day}
		}
		stats.Count++
		stats.LastRefresh = at
		data, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		return b.Put(refreshKey(channelID), data)
	})
	if err != nil {
		return RefreshStats{}, fmt.Errorf("recording refresh: %w", err)
	}
	return stats, nil
}

// RawSnapshot returns the stored blob without decoding. Used by tests
// and the export command to inspect the persisted layout.
func (s *Store) RawSnapshot(channelID string) ([]byte, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(snapshotsBucket).Get(snapshotKey(channelID))
		if data != nil {
			raw = append([]byte(nil), data...)
		}
		return nil
	})
	return raw, err
}
