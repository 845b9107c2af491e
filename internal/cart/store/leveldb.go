package store

import (
	"context"
	"encoding/json"

	"github.com/fekuna/penstore/internal/model"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
)

// LevelDBStore is the device-local cart used by the CLI.
type LevelDBStore struct {
	db *leveldb.DB
}

func OpenLevelDB(path string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "open cart store %s", path)
	}
	return &LevelDBStore{db: db}, nil
}

func (s *LevelDBStore) Close() error {
	return s.db.Close()
}

func (s *LevelDBStore) Get(_ context.Context, key string) (*model.Cart, error) {
	data, err := s.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return &model.Cart{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func (s *LevelDBStore) Put(_ context.Context, key string, c *model.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.db.Put([]byte(key), data, nil)
}

func (s *LevelDBStore) Delete(_ context.Context, key string) error {
	return s.db.Delete([]byte(key), nil)
}
