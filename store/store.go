// Package store persists extracted records in a bbolt database file. The
// store is an append-only log: duplicate ids become distinct rows, and a
// secondary index on id exists for lookup only.
package store

import (
	"bytes"
	"encoding/binary"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/miku/gndzero/errors"
)

var (
	// bucketRecords maps a big-endian insert sequence to record content.
	bucketRecords = []byte("records")

	// bucketIDs maps id NUL seq to the record sequence. Prefix scans over
	// this bucket answer lookups by id.
	bucketIDs = []byte("ids")
)

// RecordStore is a durable id to content mapping backed by a single file.
// A store created with Create holds one write transaction for its whole
// lifetime; nothing is visible on disk until Close commits it.
type RecordStore struct {
	// Path is the location of the database file.
	Path string

	db  *bolt.DB
	tx  *bolt.Tx
	seq uint64
}

// Create opens a fresh store for writing. The record table and the id index
// are created once, inside the single run transaction.
func Create(path string) (*RecordStore, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStorage, "failed to create store")
	}

	tx, err := db.Begin(true)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.ErrStorage, "failed to begin transaction")
	}

	if _, err := tx.CreateBucket(bucketRecords); err != nil {
		tx.Rollback()
		db.Close()
		return nil, errors.Wrap(err, errors.ErrStorage, "failed to create record bucket")
	}
	if _, err := tx.CreateBucket(bucketIDs); err != nil {
		tx.Rollback()
		db.Close()
		return nil, errors.Wrap(err, errors.ErrStorage, "failed to create index bucket")
	}

	return &RecordStore{Path: path, db: db, tx: tx}, nil
}

// Open opens an existing store read-only.
func Open(path string) (*RecordStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{ReadOnly: true, Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStorage, "failed to open store")
	}
	return &RecordStore{Path: path, db: db}, nil
}

// Insert appends one record row. Rows are never merged or rejected, a
// duplicate id simply yields another row.
func (s *RecordStore) Insert(id, content string) error {
	if s.tx == nil {
		return errors.New(errors.ErrStorage, "store is not writable")
	}

	s.seq++
	key := u64be(s.seq)

	if err := s.tx.Bucket(bucketRecords).Put(key, []byte(content)); err != nil {
		return errors.Wrap(err, errors.ErrStorage, "failed to insert record")
	}

	idKey := make([]byte, 0, len(id)+1+8)
	idKey = append(idKey, id...)
	idKey = append(idKey, 0)
	idKey = append(idKey, key...)
	if err := s.tx.Bucket(bucketIDs).Put(idKey, key); err != nil {
		return errors.Wrap(err, errors.ErrStorage, "failed to index record")
	}

	return nil
}

// Len returns the number of rows inserted so far in this run.
func (s *RecordStore) Len() uint64 {
	return s.seq
}

// Close commits the pending transaction, if any, and closes the file. A
// writable store only becomes durable here.
func (s *RecordStore) Close() error {
	if s.tx != nil {
		if err := s.tx.Commit(); err != nil {
			s.db.Close()
			return errors.Wrap(err, errors.ErrStorage, "failed to commit")
		}
		s.tx = nil
	}
	return s.db.Close()
}

// Abort discards the pending transaction and closes the file. The partial
// run leaves no committed rows behind.
func (s *RecordStore) Abort() error {
	if s.tx != nil {
		s.tx.Rollback()
		s.tx = nil
	}
	return s.db.Close()
}

// Lookup returns the content of the first row stored for id, in insert
// order. A missing id yields an ErrNotFound error.
func (s *RecordStore) Lookup(id string) (string, error) {
	var content string
	err := s.view(func(tx *bolt.Tx) error {
		prefix := append([]byte(id), 0)
		c := tx.Bucket(bucketIDs).Cursor()
		k, v := c.Seek(prefix)
		if k == nil || !bytes.HasPrefix(k, prefix) {
			return errors.Newf(errors.ErrNotFound, "no record with id %s", id)
		}
		content = string(tx.Bucket(bucketRecords).Get(v))
		return nil
	})
	return content, err
}

// LookupAll returns every row stored for id, in insert order.
func (s *RecordStore) LookupAll(id string) ([]string, error) {
	var contents []string
	err := s.view(func(tx *bolt.Tx) error {
		prefix := append([]byte(id), 0)
		records := tx.Bucket(bucketRecords)
		c := tx.Bucket(bucketIDs).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			contents = append(contents, string(records.Get(v)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(contents) == 0 {
		return nil, errors.Newf(errors.ErrNotFound, "no record with id %s", id)
	}
	return contents, nil
}

// Count returns the total number of rows in the store.
func (s *RecordStore) Count() (int, error) {
	var n int
	err := s.view(func(tx *bolt.Tx) error {
		n = tx.Bucket(bucketRecords).Stats().KeyN
		return nil
	})
	return n, err
}

// view runs fn against either the pending write transaction or a fresh
// read transaction, and fails when the buckets are absent.
func (s *RecordStore) view(fn func(tx *bolt.Tx) error) error {
	run := func(tx *bolt.Tx) error {
		if tx.Bucket(bucketRecords) == nil || tx.Bucket(bucketIDs) == nil {
			return errors.New(errors.ErrStorage, "store buckets not found")
		}
		return fn(tx)
	}
	if s.tx != nil {
		return run(s.tx)
	}
	return s.db.View(run)
}

func u64be(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
