package registry

import (
	"time"

	"github.com/fxamacker/cbor"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

// methodsBucket is the bbolt bucket holding CBOR-encoded predefined methods keyed by ID.
var methodsBucket = []byte("methods")

// Store persists user-defined predefined methods in a bbolt database.
type Store struct {
	path string
	db   *bbolt.DB
}

// OpenStore opens (creating it if needed) the store at the provided path.
func OpenStore(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "could not open method store %s", path)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(methodsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.WithStack(err)
	}

	return &Store{path: path, db: db}, nil
}

// Path returns the path of the database file.
func (s *Store) Path() string {
	return s.path
}

// Put validates and saves a method, replacing any method with the same ID.
func (s *Store) Put(method PredefinedMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}
	data, err := cbor.Marshal(method, cbor.EncOptions{})
	if err != nil {
		return errors.WithStack(err)
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(methodsBucket).Put([]byte(method.ID), data)
	})
	if err != nil {
		return errors.WithStack(err)
	}
	logger().Debug("Stored predefined method ", method.ID)
	return nil
}

// Get loads the method with the provided ID. The boolean reports whether it was found.
func (s *Store) Get(id string) (*PredefinedMethod, bool, error) {
	var method *PredefinedMethod
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(methodsBucket).Get([]byte(id))
		if data == nil {
			return nil
		}
		method = &PredefinedMethod{}
		return cbor.Unmarshal(data, method)
	})
	if err != nil {
		return nil, false, errors.Wrapf(err, "could not load method %s", id)
	}
	return method, method != nil, nil
}

// List loads every stored method, ordered by ID.
func (s *Store) List() ([]PredefinedMethod, error) {
	methods := []PredefinedMethod{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(methodsBucket).ForEach(func(key, data []byte) error {
			var method PredefinedMethod
			if err := cbor.Unmarshal(data, &method); err != nil {
				return errors.Wrapf(err, "could not decode method %s", key)
			}
			methods = append(methods, method)
			return nil
		})
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return methods, nil
}

// Delete removes the method with the provided ID, reporting whether it was stored.
func (s *Store) Delete(id string) (bool, error) {
	found := false
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(methodsBucket)
		if bucket.Get([]byte(id)) == nil {
			return nil
		}
		found = true
		return bucket.Delete([]byte(id))
	})
	if err != nil {
		return false, errors.WithStack(err)
	}
	return found, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return errors.WithStack(s.db.Close())
}
