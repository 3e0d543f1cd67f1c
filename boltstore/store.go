// Package boltstore keeps archived records in bbolt buckets. Each value is
// the record's exact-size binary encoding behind an xxhash64 checksum.
package boltstore

import (
	"encoding/binary"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.etcd.io/bbolt"

	"go.hasen.dev/archive"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrChecksum = errors.New("record checksum mismatch")
)

const checksumLen = 8

type Options struct {
	Timeout  time.Duration
	ReadOnly bool
	Archive  []archive.Option
}

type Store struct {
	db   *bbolt.DB
	opts Options
}

func Open(path string, opts Options) (*Store, error) {
	db, err := bbolt.Open(path, 0o644, &bbolt.Options{
		Timeout:  opts.Timeout,
		ReadOnly: opts.ReadOnly,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open bolt store %s", path)
	}
	logrus.WithField("path", path).Debugf("opened record store")
	return &Store{db: db, opts: opts}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Put encodes r with a size pass followed by a write into an exact-size
// buffer, and stores it under bucket/key.
func (s *Store) Put(bucket, key string, r archive.Record) error {
	size, err := archive.SizeOf(r, s.opts.Archive...)
	if err != nil {
		return err
	}
	value := make([]byte, checksumLen+size)
	n, err := archive.EncodeBinary(value[checksumLen:], r, s.opts.Archive...)
	if err != nil {
		return err
	}
	if n != size {
		return errors.Wrapf(archive.ErrSizeMismatch, "%s/%s: computed %d bytes, wrote %d", bucket, key, size, n)
	}
	binary.BigEndian.PutUint64(value, xxhash.Sum64(value[checksumLen:]))

	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return errors.Wrapf(err, "create bucket %s", bucket)
		}
		return b.Put([]byte(key), value)
	})
}

// Get decodes the record stored under bucket/key into r.
func (s *Store) Get(bucket, key string, r archive.Record) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return errors.Wrapf(ErrNotFound, "%s/%s", bucket, key)
		}
		value := b.Get([]byte(key))
		if value == nil {
			return errors.Wrapf(ErrNotFound, "%s/%s", bucket, key)
		}
		if len(value) < checksumLen {
			return errors.Wrapf(ErrChecksum, "%s/%s: value of %d bytes", bucket, key, len(value))
		}
		payload := value[checksumLen:]
		if binary.BigEndian.Uint64(value) != xxhash.Sum64(payload) {
			return errors.Wrapf(ErrChecksum, "%s/%s", bucket, key)
		}
		// payload is only valid inside the transaction; decoding copies
		// everything it keeps.
		return archive.DecodeBinary(payload, r, s.opts.Archive...)
	})
}

func (s *Store) Delete(bucket, key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}

// Keys lists the keys of bucket in byte order.
func (s *Store) Keys(bucket string) ([]string, error) {
	var keys []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}
