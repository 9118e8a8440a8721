package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/layerscout/core"
	"github.com/poiesic/layerscout/storage"
)

// CatalogRepository implements storage.CatalogRepository for BadgerDB.
type CatalogRepository struct {
	backend *Backend
}

var _ storage.CatalogRepository = (*CatalogRepository)(nil)

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(backend *Backend) *CatalogRepository {
	return &CatalogRepository{
		backend: backend,
	}
}

// Close releases resources. The backend is owned by the caller.
func (r *CatalogRepository) Close() error {
	return nil
}

// SaveCatalog stores records in order under source, replacing any previous snapshot.
func (r *CatalogRepository) SaveCatalog(ctx context.Context, source core.ID, records []core.CatalogRecord) (*core.CatalogInfo, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	info := &core.CatalogInfo{
		Source:   source,
		Count:    len(records),
		StoredAt: time.Now().UTC(),
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if err := deleteRecords(tx, source); err != nil {
			return err
		}
		for i := range records {
			if err := tx.Set(makeCatalogRecordKey(source, i), storage.MarshalCatalogRecord(&records[i])); err != nil {
				return err
			}
		}
		if err := tx.Set(makeCatalogInfoKey(source), storage.MarshalCatalogInfo(info)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	r.backend.logger.Debug("cached catalog", "source", uint64(source), "records", info.Count)
	return info, nil
}

// LoadCatalog returns the records stored under source in saved order.
func (r *CatalogRepository) LoadCatalog(ctx context.Context, source core.ID) ([]core.CatalogRecord, *core.CatalogInfo, error) {
	if r.backend.IsClosed() {
		return nil, nil, storage.ErrStorageClosed
	}

	var (
		info    *core.CatalogInfo
		records []core.CatalogRecord
	)
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		info, err = readInfo(tx, source)
		if err != nil {
			return err
		}

		records = make([]core.CatalogRecord, 0, info.Count)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialCatalogRecordKey(source)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var record *core.CatalogRecord
			err := iter.Item().Value(func(val []byte) error {
				var unmarshalErr error
				record, unmarshalErr = storage.UnmarshalCatalogRecord(val)
				return unmarshalErr
			})
			if err != nil {
				return err
			}
			records = append(records, *record)
		}
		return nil
	}, false)
	if err != nil {
		return nil, nil, err
	}

	if len(records) != info.Count {
		return nil, nil, fmt.Errorf("%w: expected %d records, found %d", storage.ErrCorruptSnapshot, info.Count, len(records))
	}
	return records, info, nil
}

// GetCatalogInfo returns the info of the snapshot stored under source.
func (r *CatalogRepository) GetCatalogInfo(ctx context.Context, source core.ID) (*core.CatalogInfo, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var info *core.CatalogInfo
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		info, err = readInfo(tx, source)
		return err
	}, false)
	return info, err
}

// ListCatalogs returns the info of every stored snapshot.
func (r *CatalogRepository) ListCatalogs(ctx context.Context) ([]*core.CatalogInfo, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var infos []*core.CatalogInfo
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(catalogInfoPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				info, err := storage.UnmarshalCatalogInfo(val)
				if err != nil {
					return err
				}
				infos = append(infos, info)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)

	return infos, err
}

// DeleteCatalog removes the snapshot stored under source.
func (r *CatalogRepository) DeleteCatalog(ctx context.Context, source core.ID) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if _, err := readInfo(tx, source); err != nil {
			return err
		}
		if err := deleteRecords(tx, source); err != nil {
			return err
		}
		if err := tx.Delete(makeCatalogInfoKey(source)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// readInfo reads a snapshot's info, mapping a missing key to storage.ErrNotFound.
func readInfo(tx *badger.Txn, source core.ID) (*core.CatalogInfo, error) {
	item, err := tx.Get(makeCatalogInfoKey(source))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}

	var info *core.CatalogInfo
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		info, unmarshalErr = storage.UnmarshalCatalogInfo(val)
		return unmarshalErr
	})
	return info, err
}

// deleteRecords removes every record key of a snapshot.
func deleteRecords(tx *badger.Txn, source core.ID) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = makePartialCatalogRecordKey(source)
	iter := tx.NewIterator(opts)

	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	iter.Close()

	for _, key := range keys {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
