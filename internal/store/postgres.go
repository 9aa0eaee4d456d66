package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cast"

	"github.com/agamariel/annetom/internal/ident"
)

// PostgresStore хранит записи коллекций как jsonb-документы.
// Это серверный бэкенд: несколько процессов могут делить одну базу,
// поэтому точечные примитивы и CAS выполняются на стороне СУБД.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore создаёт хранилище поверх пула подключений.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Get возвращает коллекцию: конверт {items:[...]} либо одиночный документ.
func (s *PostgresStore) Get(ctx context.Context, collection string) (any, error) {
	if _, ok := collectionFiles[collection]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}

	if !IsItemCollection(collection) {
		return s.getDocument(ctx, collection)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT doc FROM collection_items
		WHERE collection = $1
		ORDER BY position ASC
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("query collection %s: %w", collection, err)
	}
	defer rows.Close()

	items := []any{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		var m map[string]any
		if err := json.Unmarshal(doc, &m); err != nil {
			return nil, fmt.Errorf("decode item: %w", err)
		}
		items = append(items, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return map[string]any{"items": items}, nil
}

// Set перезаписывает коллекцию целиком в одной транзакции.
func (s *PostgresStore) Set(ctx context.Context, collection string, data any) error {
	if _, ok := collectionFiles[collection]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}

	if !IsItemCollection(collection) {
		return s.setDocument(ctx, collection, data)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin set %s: %w", collection, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM collection_items WHERE collection = $1`, collection); err != nil {
		return fmt.Errorf("clear collection %s: %w", collection, err)
	}
	for _, record := range Items(data) {
		if err := insertItem(ctx, tx, collection, record); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// AddItem добавляет запись, генерируя id при его отсутствии.
func (s *PostgresStore) AddItem(ctx context.Context, collection string, item any) (map[string]any, error) {
	if _, ok := collectionFiles[collection]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}

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

	if err := insertItem(ctx, s.pool, collection, record); err != nil {
		return nil, err
	}
	return record, nil
}

// UpdateItem сливает изменения в запись и увеличивает её версию.
func (s *PostgresStore) UpdateItem(ctx context.Context, collection, id string, changes map[string]any) (map[string]any, error) {
	return s.update(ctx, collection, id, changes, -1)
}

// UpdateItemCAS обновляет запись только при совпадении ожидаемой версии.
func (s *PostgresStore) UpdateItemCAS(ctx context.Context, collection, id string, changes map[string]any, expectedVersion int64) (map[string]any, error) {
	return s.update(ctx, collection, id, changes, expectedVersion)
}

// RemoveItem удаляет запись по id.
func (s *PostgresStore) RemoveItem(ctx context.Context, collection, id string) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM collection_items WHERE collection = $1 AND item_id = $2
	`, collection, id)
	if err != nil {
		return fmt.Errorf("remove item %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s/%s", ErrItemNotFound, collection, id)
	}
	return nil
}

func (s *PostgresStore) update(ctx context.Context, collection, id string, changes map[string]any, expectedVersion int64) (map[string]any, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update %s/%s: %w", collection, id, err)
	}
	defer tx.Rollback(ctx)

	var doc []byte
	var version int64
	err = tx.QueryRow(ctx, `
		SELECT doc, version FROM collection_items
		WHERE collection = $1 AND item_id = $2
		FOR UPDATE
	`, collection, id).Scan(&doc, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", ErrItemNotFound, collection, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load item %s/%s: %w", collection, id, err)
	}
	if expectedVersion >= 0 && version != expectedVersion {
		return nil, fmt.Errorf("%w: %s/%s expected %d, have %d",
			ErrVersionConflict, collection, id, expectedVersion, version)
	}

	var merged map[string]any
	if err := json.Unmarshal(doc, &merged); err != nil {
		return nil, fmt.Errorf("decode item %s/%s: %w", collection, id, err)
	}
	for k, v := range changes {
		merged[k] = v
	}
	merged["version"] = version + 1

	encoded, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("encode item %s/%s: %w", collection, id, err)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE collection_items SET doc = $3, version = version + 1
		WHERE collection = $1 AND item_id = $2
	`, collection, id, encoded); err != nil {
		return nil, fmt.Errorf("update item %s/%s: %w", collection, id, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit update %s/%s: %w", collection, id, err)
	}
	return merged, nil
}

func (s *PostgresStore) getDocument(ctx context.Context, collection string) (any, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx, `
		SELECT doc FROM collection_documents WHERE collection = $1
	`, collection).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return defaultData(collection)
	}
	if err != nil {
		return nil, fmt.Errorf("query document %s: %w", collection, err)
	}

	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", collection, err)
	}
	return m, nil
}

func (s *PostgresStore) setDocument(ctx context.Context, collection string, data any) error {
	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", collection, err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO collection_documents (collection, doc)
		VALUES ($1, $2)
		ON CONFLICT (collection) DO UPDATE SET doc = EXCLUDED.doc
	`, collection, encoded)
	if err != nil {
		return fmt.Errorf("set document %s: %w", collection, err)
	}
	return nil
}

// execer объединяет пул и транзакцию для insertItem.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertItem(ctx context.Context, db execer, collection string, record map[string]any) error {
	encoded, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode item: %w", err)
	}
	version := cast.ToInt64(record["version"])
	if version == 0 {
		version = 1
	}
	_, err = db.Exec(ctx, `
		INSERT INTO collection_items (collection, item_id, doc, version)
		VALUES ($1, $2, $3, $4)
	`, collection, cast.ToString(record["id"]), encoded, version)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}
