package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cast"

	"github.com/agamariel/annetom/internal/ident"
)

var collectionFiles = map[string]string{
	CollectionProducts:     "products.json",
	CollectionCustomers:    "customers.json",
	CollectionOrders:       "orders.json",
	CollectionMotoboys:     "motoboys.json",
	CollectionCashSessions: "cashSessions.json",
	CollectionSettings:     "settings.json",
	CollectionDashboard:    "dashboard.json",
}

// FileStore хранит каждую коллекцию в отдельном JSON-файле каталога данных.
// Это основной движок десктопного режима. Записи атомарны (временный файл
// плюс rename); мьютекс сериализует доступ внутри процесса.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore создаёт хранилище в указанном каталоге.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store: data dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file store: create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Get возвращает коллекцию целиком. Отсутствующий файл создаётся
// с содержимым по умолчанию.
func (s *FileStore) Get(ctx context.Context, collection string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(collection)
}

// Set перезаписывает коллекцию целиком.
func (s *FileStore) Set(ctx context.Context, collection string, data any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.collectionPath(collection)
	if err != nil {
		return err
	}
	return s.write(path, data)
}

// AddItem добавляет запись, генерируя id при его отсутствии.
func (s *FileStore) AddItem(ctx context.Context, collection string, item any) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := ToRecord(item)
	if err != nil {
		return nil, err
	}
	if cast.ToString(record["id"]) == "" {
		record["id"] = ident.CreateID(collection)
	}
	if cast.ToInt64(record["version"]) == 0 {
		record["version"] = int64(1)
	}

	current, err := s.read(collection)
	if err != nil {
		return nil, err
	}
	items := Items(current)
	items = append(items, record)

	path, _ := s.collectionPath(collection)
	if err := s.write(path, Wrap(items)); err != nil {
		return nil, err
	}
	return record, nil
}

// UpdateItem сливает изменения в запись по id и увеличивает её версию.
func (s *FileStore) UpdateItem(ctx context.Context, collection, id string, changes map[string]any) (map[string]any, error) {
	return s.update(collection, id, changes, -1)
}

// UpdateItemCAS обновляет запись только при совпадении ожидаемой версии.
func (s *FileStore) UpdateItemCAS(ctx context.Context, collection, id string, changes map[string]any, expectedVersion int64) (map[string]any, error) {
	return s.update(collection, id, changes, expectedVersion)
}

// RemoveItem удаляет запись по id.
func (s *FileStore) RemoveItem(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read(collection)
	if err != nil {
		return err
	}
	items := Items(current)
	next := items[:0]
	found := false
	for _, it := range items {
		if cast.ToString(it["id"]) == id {
			found = true
			continue
		}
		next = append(next, it)
	}
	if !found {
		return fmt.Errorf("%w: %s/%s", ErrItemNotFound, collection, id)
	}

	path, _ := s.collectionPath(collection)
	return s.write(path, Wrap(next))
}

func (s *FileStore) update(collection, id string, changes map[string]any, expectedVersion int64) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read(collection)
	if err != nil {
		return nil, err
	}
	items := Items(current)
	for i, it := range items {
		if cast.ToString(it["id"]) != id {
			continue
		}
		version := cast.ToInt64(it["version"])
		if expectedVersion >= 0 && version != expectedVersion {
			return nil, fmt.Errorf("%w: %s/%s expected %d, have %d",
				ErrVersionConflict, collection, id, expectedVersion, version)
		}
		merged := make(map[string]any, len(it)+len(changes))
		for k, v := range it {
			merged[k] = v
		}
		for k, v := range changes {
			merged[k] = v
		}
		merged["version"] = version + 1
		items[i] = merged

		path, _ := s.collectionPath(collection)
		if err := s.write(path, Wrap(items)); err != nil {
			return nil, err
		}
		return merged, nil
	}
	return nil, fmt.Errorf("%w: %s/%s", ErrItemNotFound, collection, id)
}

func (s *FileStore) collectionPath(collection string) (string, error) {
	name, ok := collectionFiles[collection]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
	return filepath.Join(s.dir, name), nil
}

func (s *FileStore) read(collection string) (any, error) {
	path, err := s.collectionPath(collection)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		fallback, derr := defaultData(collection)
		if derr != nil {
			return nil, derr
		}
		if werr := s.write(path, fallback); werr != nil {
			return nil, werr
		}
		return fallback, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read collection %s: %w", collection, err)
	}
	if len(content) == 0 {
		return defaultData(collection)
	}

	var data any
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("decode collection %s: %w", collection, err)
	}
	return data, nil
}

func (s *FileStore) write(path string, data any) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return fmt.Errorf("write collection: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace collection file: %w", err)
	}
	return nil
}
