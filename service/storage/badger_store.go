// Package storage persists finished runs.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/elC0mpa/cloud-doctor/model"
)

var (
	ErrNotFound = errors.New("run not found")
)

// BadgerStore keeps run records in a Badger database. Records are keyed by
// id and indexed by finish time for newest-first listing.
type BadgerStore struct {
	db *badger.DB
}

func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(filepath.Clean(path))
	opts.Logger = nil
	opts = opts.WithValueLogFileSize(1 << 20)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open run store at %s: %w", path, err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func runKey(id string) []byte {
	return []byte("run:" + id)
}

const indexPrefix = "idx:"

func indexKey(r model.RunRecord) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", indexPrefix, r.FinishedAt.UnixNano(), r.ID))
}

func (s *BadgerStore) SaveRun(r model.RunRecord) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode run %s: %w", r.ID, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(runKey(r.ID), data); err != nil {
			return err
		}
		return txn.Set(indexKey(r), []byte(r.ID))
	})
}

func (s *BadgerStore) GetRun(id string) (*model.RunRecord, error) {
	var out model.RunRecord
	err := s.db.View(func(txn *badger.Txn) error {
		return readRun(txn, id, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListRuns returns up to limit records, newest first. A limit of zero or
// less returns all records.
func (s *BadgerStore) ListRuns(limit int) ([]model.RunRecord, error) {
	var out []model.RunRecord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(indexPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		seen := map[string]bool{}
		for it.Seek(append([]byte(indexPrefix), 0xFF)); it.ValidForPrefix([]byte(indexPrefix)); it.Next() {
			var id string
			if err := it.Item().Value(func(v []byte) error {
				id = string(v)
				return nil
			}); err != nil {
				return err
			}
			if seen[id] {
				continue
			}
			seen[id] = true

			var r model.RunRecord
			if err := readRun(txn, id, &r); err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return err
			}
			out = append(out, r)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return out, nil
}

func readRun(txn *badger.Txn, id string, out *model.RunRecord) error {
	item, err := txn.Get(runKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		return err
	}
	return item.Value(func(v []byte) error {
		return json.Unmarshal(v, out)
	})
}
