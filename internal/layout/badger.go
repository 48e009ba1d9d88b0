package layout

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/atomicstack/winadmin/internal/codec"
	"github.com/atomicstack/winadmin/internal/logging"
	"github.com/atomicstack/winadmin/internal/state"
	badger "github.com/dgraph-io/badger/v4"
)

const badgerKeyPrefix = "layout:"

// BadgerStore persists one record per section in a Badger database.
type BadgerStore struct {
	db   *badger.DB
	path string
}

func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(filepath.Clean(path))
	opts.Logger = nil
	opts = opts.WithValueLogFileSize(1 << 20)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerStore{db: db, path: path}, nil
}

func (s *BadgerStore) Name() string { return "badger:" + s.path }

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func sectionKey(sec state.Section) []byte {
	return []byte(badgerKeyPrefix + sec.String())
}

func (s *BadgerStore) Save(ctx context.Context, sec state.Section, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := codec.Marshal(entries)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(sectionKey(sec), data)
	})
}

func (s *BadgerStore) Load(ctx context.Context) (map[state.Section][]Entry, error) {
	out := make(map[state.Section][]Entry)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(badgerKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			name := strings.TrimPrefix(string(item.Key()), badgerKeyPrefix)
			sec, err := state.ParseSection(name)
			if err != nil {
				logging.Error(err)
				continue
			}
			var entries []Entry
			if err := item.Value(func(v []byte) error {
				return codec.Unmarshal(v, &entries)
			}); err != nil {
				return err
			}
			out[sec] = entries
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
