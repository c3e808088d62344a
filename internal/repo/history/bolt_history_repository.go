package history

import (
	"context"
	"encoding/binary"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/mkrupp/todoshell/internal/infra/logging"
)

const bucketHistory = "history"

// BoltHistoryRepositoryConfig holds configuration for the bbolt history repository.
type BoltHistoryRepositoryConfig struct {
	// DatabasePath is the filesystem path to the bbolt database file
	DatabasePath string `env:"DATABASE_PATH" default:"var/storage/history.db"`
}

// BoltHistoryRepository implements Repository on a bbolt bucket keyed by
// big-endian sequence number, so cursor iteration yields entries in order.
type BoltHistoryRepository struct {
	db  *bolt.DB
	log logging.Logger
}

var _ Repository = (*BoltHistoryRepository)(nil)

// BoltHistoryRepositoryFactory creates a factory function that returns a
// new BoltHistoryRepository. The factory function implements the
// RepositoryFactory type.
func BoltHistoryRepositoryFactory(cfg BoltHistoryRepositoryConfig) RepositoryFactory {
	return func() (Repository, error) {
		return NewBoltHistoryRepository(cfg)
	}
}

// NewBoltHistoryRepository opens (or creates) the history database at the
// configured path and ensures the history bucket exists.
func NewBoltHistoryRepository(cfg BoltHistoryRepositoryConfig) (*BoltHistoryRepository, error) {
	log := logging.GetLogger("repo.history.bolt_history_repository").With(
		logging.Group("db", "path", cfg.DatabasePath),
	)

	db, err := bolt.Open(cfg.DatabasePath, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketHistory))

		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	return &BoltHistoryRepository{
		db:  db,
		log: log,
	}, nil
}

// Append implements Repository.Append.
func (r *BoltHistoryRepository) Append(ctx context.Context, text string) (int, error) {
	var seq uint64

	err := r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketHistory))

		var err error

		seq, err = bucket.NextSequence()
		if err != nil {
			return err
		}

		return bucket.Put(marshalSeq(seq), []byte(text))
	})
	if err != nil {
		return 0, fmt.Errorf("append entry: %w", err)
	}

	return int(seq), nil
}

// Entry implements Repository.Entry.
func (r *BoltHistoryRepository) Entry(ctx context.Context, seq int) (Entry, error) {
	var entry Entry

	err := r.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket([]byte(bucketHistory)).Get(marshalSeq(uint64(seq)))
		if value == nil {
			return ErrNoEntry
		}

		entry = Entry{Seq: seq, Text: string(value)}

		return nil
	})
	if err != nil {
		return Entry{}, fmt.Errorf("get entry: %w", err)
	}

	return entry, nil
}

// Entries implements Repository.Entries.
func (r *BoltHistoryRepository) Entries(ctx context.Context, from, upto int) ([]Entry, error) {
	var entries []Entry

	err := r.db.View(func(tx *bolt.Tx) error {
		cursor := tx.Bucket([]byte(bucketHistory)).Cursor()

		for k, v := cursor.Seek(marshalSeq(uint64(from))); k != nil && unmarshalSeq(k) < uint64(upto); k, v = cursor.Next() {
			entries = append(entries, Entry{Seq: int(unmarshalSeq(k)), Text: string(v)})
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}

// NextSeq implements Repository.NextSeq.
func (r *BoltHistoryRepository) NextSeq(ctx context.Context) (int, error) {
	var seq uint64

	err := r.db.View(func(tx *bolt.Tx) error {
		seq = tx.Bucket([]byte(bucketHistory)).Sequence() + 1

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("read sequence: %w", err)
	}

	return int(seq), nil
}

// Close implements Repository.Close by closing the database.
func (r *BoltHistoryRepository) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}

	return nil
}

func marshalSeq(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)

	return key
}

func unmarshalSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}
