package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/homely/homely-back/internal/domain"
)

const jobKeyPrefix = "jobs/"

// BadgerJobsRepository persists the job collection in a local Badger
// key-value store. Each job lives under jobs/<id> together with an insertion
// sequence; listings order by that sequence alone, so read-back matches the
// in-memory head-insert order regardless of caller-supplied timestamps.
type BadgerJobsRepository struct {
	db  *badger.DB
	seq *badger.Sequence
}

type badgerJobRecord struct {
	domain.Job
	Seq uint64 `json:"seq"`
}

func NewBadgerJobsRepository(dataDir string) (*BadgerJobsRepository, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	opts := badger.DefaultOptions(filepath.Join(dataDir, "badger"))
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	seq, err := db.GetSequence([]byte("jobs_seq"), 64)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open job sequence: %w", err)
	}

	return &BadgerJobsRepository{db: db, seq: seq}, nil
}

func (r *BadgerJobsRepository) Close() error {
	if err := r.seq.Release(); err != nil {
		_ = r.db.Close()
		return err
	}
	return r.db.Close()
}

func (r *BadgerJobsRepository) ListJobs(_ context.Context) ([]domain.Job, error) {
	records := make([]badgerJobRecord, 0)

	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(jobKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var record badgerJobRecord
				if err := json.Unmarshal(val, &record); err != nil {
					return fmt.Errorf("decode job record: %w", err)
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("list jobs", err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Seq > records[j].Seq
	})

	jobs := make([]domain.Job, 0, len(records))
	for _, record := range records {
		jobs = append(jobs, record.Job)
	}
	return jobs, nil
}

func (r *BadgerJobsRepository) GetJob(_ context.Context, id string) (domain.Job, error) {
	record, err := r.getRecord(id)
	if err != nil {
		return domain.Job{}, err
	}
	return record.Job, nil
}

func (r *BadgerJobsRepository) CreateJob(_ context.Context, job domain.Job) (domain.Job, error) {
	seq, err := r.seq.Next()
	if err != nil {
		return domain.Job{}, storeErr("next job sequence", err)
	}

	key := []byte(jobKeyPrefix + job.ID)
	err = r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			return domain.ErrConflict
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		encoded, err := json.Marshal(badgerJobRecord{Job: job, Seq: seq})
		if err != nil {
			return fmt.Errorf("encode job record: %w", err)
		}
		return txn.Set(key, encoded)
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.Job{}, domain.ErrConflict
		}
		return domain.Job{}, storeErr("create job", err)
	}
	return job, nil
}

func (r *BadgerJobsRepository) UpdateJobStatus(
	_ context.Context,
	id string,
	status domain.JobStatus,
) (domain.Job, error) {
	var updated domain.Job

	key := []byte(jobKeyPrefix + id)
	err := r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}

		var record badgerJobRecord
		err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
		if err != nil {
			return fmt.Errorf("decode job record: %w", err)
		}

		record.Status = status
		updated = record.Job

		encoded, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("encode job record: %w", err)
		}
		return txn.Set(key, encoded)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Job{}, domain.ErrNotFound
		}
		return domain.Job{}, storeErr("update job status", err)
	}
	return updated, nil
}

func (r *BadgerJobsRepository) getRecord(id string) (badgerJobRecord, error) {
	var record badgerJobRecord

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(jobKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return badgerJobRecord{}, domain.ErrNotFound
		}
		return badgerJobRecord{}, storeErr("get job", err)
	}
	return record, nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
