package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore keeps a container inside an embedded Badger database. Keys are
// namespaced by "container/" so several containers can share one directory;
// container names therefore cannot contain '/'.
// It backs local development and tests; content types are not persisted.
type BadgerStore struct {
	db     *badger.DB
	prefix []byte
}

func NewBadger(cs ConnectionString, container string) (*BadgerStore, error) {
	if container == "" {
		return nil, errors.New("badger container must be provided")
	}
	if strings.Contains(container, "/") {
		return nil, fmt.Errorf("badger container %q must not contain '/'", container)
	}
	var opts badger.Options
	switch {
	case cs.InMemory:
		opts = badger.DefaultOptions("").WithInMemory(true)
	case cs.Path != "":
		opts = badger.DefaultOptions(cs.Path)
	default:
		return nil, errors.New("badger store needs Path or InMemory=true")
	}
	db, err := badger.Open(opts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db, prefix: []byte(container + "/")}, nil
}

func (b *BadgerStore) key(k string) []byte {
	out := make([]byte, 0, len(b.prefix)+len(k))
	out = append(out, b.prefix...)
	return append(out, k...)
}

// EnsureContainer has nothing to provision; the prefix is the container.
func (b *BadgerStore) EnsureContainer(ctx context.Context) error {
	return ctx.Err()
}

func (b *BadgerStore) Put(ctx context.Context, key string, body []byte, _ string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	v := append([]byte(nil), body...)
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(b.key(key), v)
	})
	if err != nil {
		return http.StatusInternalServerError, err
	}
	return http.StatusCreated, nil
}

func (b *BadgerStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(b.key(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(val)), nil
}

func (b *BadgerStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	err := b.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(b.key(key))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (b *BadgerStore) DeleteIfExists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	existed := false
	err := b.db.Update(func(txn *badger.Txn) error {
		k := b.key(key)
		if _, err := txn.Get(k); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		existed = true
		return txn.Delete(k)
	})
	if err != nil {
		return false, err
	}
	return existed, nil
}

// Walk snapshots the key set first so fn may modify the store.
func (b *BadgerStore) Walk(ctx context.Context, fn func(key string) error) error {
	var keys []string
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = b.prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(b.prefix); it.ValidForPrefix(b.prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			k := it.Item().KeyCopy(nil)
			keys = append(keys, string(k[len(b.prefix):]))
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(k); err != nil {
			return err
		}
	}
	return nil
}

func (b *BadgerStore) Close() error {
	return b.db.Close()
}
