package store

import (
	"fmt"

	bolt "go.etcd.io/bbolt"
)

var localBucket = []byte("local")

// BoltKV — локальное key-value хранилище на bbolt. Используется как
// фолбэк настроек и как состояние синхронизации.
type BoltKV struct {
	db *bolt.DB
}

// OpenBoltKV открывает (создавая при необходимости) файл базы.
func OpenBoltKV(path string) (*BoltKV, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open local kv %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(localBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init local kv bucket: %w", err)
	}
	return &BoltKV{db: db}, nil
}

// GetItem возвращает значение по ключу; ok=false, если ключа нет.
func (k *BoltKV) GetItem(key string) (string, bool, error) {
	var value []byte
	err := k.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(localBucket).Get([]byte(key)); v != nil {
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("local kv get %s: %w", key, err)
	}
	if value == nil {
		return "", false, nil
	}
	return string(value), true, nil
}

// SetItem записывает значение по ключу.
func (k *BoltKV) SetItem(key, value string) error {
	err := k.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(localBucket).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("local kv set %s: %w", key, err)
	}
	return nil
}

// Close закрывает файл базы.
func (k *BoltKV) Close() error {
	return k.db.Close()
}
