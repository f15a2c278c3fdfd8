/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package snapshot gives the GraphCache and the parameter Store an
// optional on-disk backing store, grounded on the same on-disk-cache
// shape ingest's own IngestCacheConfig{FileBackingLocation} takes
// (boltcache_test.go): a single bbolt file, opened under an advisory
// flock so two processes never corrupt the same cache file, holding
// zstd-compressed blobs.
package snapshot

import (
	"os"

	"github.com/gofrs/flock"
	"github.com/klauspost/compress/zstd"
	bolt "go.etcd.io/bbolt"
)

var bucketName = []byte("entries")

// Store is a compressed key/value snapshot backed by one bbolt file.
// It exists so a Context or Node can survive a restart with a warm
// GraphCache or parameter set instead of waiting out a fresh discovery
// round; it is not used for anything on the hot path.
type Store struct {
	path string
	lock *flock.Flock
	db   *bolt.DB
	enc  *zstd.Encoder
	dec  *zstd.Decoder
}

// Open takes an exclusive advisory lock on path+".lock" (failing fast if
// another holder already has it) and opens/creates the bbolt file at path.
func Open(path string) (*Store, error) {
	lk := flock.New(path + ".lock")
	ok, err := lk.TryLock()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, os.ErrExist
	}

	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		lk.Unlock()
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		db.Close()
		lk.Unlock()
		return nil, err
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		lk.Unlock()
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		db.Close()
		lk.Unlock()
		return nil, err
	}

	return &Store{path: path, lock: lk, db: db, enc: enc, dec: dec}, nil
}

// Put compresses value and stores it under key, overwriting any
// existing entry.
func (s *Store) Put(key string, value []byte) error {
	compressed := s.enc.EncodeAll(value, nil)
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), compressed)
	})
}

// Get returns the decompressed value stored under key, or (nil, false)
// if no entry exists.
func (s *Store) Get(key string) ([]byte, bool, error) {
	var compressed []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v != nil {
			compressed = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if compressed == nil {
		return nil, false, nil
	}
	value, err := s.dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// ForEach visits every stored key/value pair (decompressed) in bbolt's
// own key order.
func (s *Store) ForEach(fn func(key string, value []byte) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).ForEach(func(k, v []byte) error {
			value, err := s.dec.DecodeAll(v, nil)
			if err != nil {
				return err
			}
			return fn(string(k), value)
		})
	})
}

// Delete removes key if present; it is not an error for key to be
// absent.
func (s *Store) Delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
}

// Close releases the bbolt file and the advisory lock.
func (s *Store) Close() error {
	s.dec.Close()
	err := s.db.Close()
	if unlockErr := s.lock.Unlock(); err == nil {
		err = unlockErr
	}
	return err
}
