package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cast"

	"github.com/agamariel/annetom/internal/ident"
	"github.com/agamariel/annetom/internal/models"
	"github.com/agamariel/annetom/internal/money"
	"github.com/agamariel/annetom/internal/normalize"
	"github.com/agamariel/annetom/internal/store"
)

var (
	ErrMissingMotoboyID = errors.New("motoboy id is required")
	ErrMotoboyNotFound  = errors.New("motoboy not found")
	ErrInvalidTipAmount = errors.New("tip amount must be positive")
)

// tipRetries ограничивает повторы при конфликте версий.
const tipRetries = 3

// MotoboysService определяет фасад работы с курьерами.
type MotoboysService interface {
	GetMotoboys(ctx context.Context) []*models.Motoboy
	SaveMotoboy(ctx context.Context, record map[string]any) (*models.Motoboy, error)
	ToggleMotoboyActive(ctx context.Context, id string, next any) (*models.Motoboy, error)
	GenerateMotoboyQr(ctx context.Context, id string) (string, error)
	AddMotoboyTip(ctx context.Context, id string, tipDraft map[string]any) (*models.Tip, error)
}

// MotoboysServiceImpl реализует MotoboysService.
type MotoboysServiceImpl struct {
	store  store.Store
	logger *log.Logger
}

// NewMotoboysService создаёт новый фасад курьеров.
func NewMotoboysService(st store.Store, logger *log.Logger) *MotoboysServiceImpl {
	if logger == nil {
		logger = log.Default()
	}
	return &MotoboysServiceImpl{store: st, logger: logger}
}

// GetMotoboys возвращает не удалённых курьеров в канонической форме.
// Сбой чтения логируется и даёт пустой срез.
func (s *MotoboysServiceImpl) GetMotoboys(ctx context.Context) []*models.Motoboy {
	if s.store == nil {
		s.logger.Printf("get motoboys: store is not available")
		return []*models.Motoboy{}
	}

	data, err := s.store.Get(ctx, store.CollectionMotoboys)
	if err != nil {
		s.logger.Printf("get motoboys: %v", err)
		return []*models.Motoboy{}
	}

	items := store.Items(data)
	motoboys := make([]*models.Motoboy, 0, len(items))
	for _, raw := range items {
		if cast.ToBool(raw["deleted"]) {
			continue
		}
		if m := normalize.Motoboy(raw); m != nil {
			motoboys = append(motoboys, m)
		}
	}
	return motoboys
}

// SaveMotoboy добавляет либо обновляет запись курьера. Отсутствие id
// означает создание со свежим createdAt; updatedAt ставится всегда.
func (s *MotoboysServiceImpl) SaveMotoboy(ctx context.Context, record map[string]any) (*models.Motoboy, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}
	if record == nil {
		return nil, fmt.Errorf("%w: motoboy record is required", ErrInvalidPayload)
	}

	now := nowISO()
	id := cast.ToString(record["id"])

	if id == "" {
		draft := make(map[string]any, len(record)+2)
		for k, v := range record {
			draft[k] = v
		}
		draft["createdAt"] = now
		draft["updatedAt"] = now

		created, err := s.store.AddItem(ctx, store.CollectionMotoboys, draft)
		if err != nil {
			return nil, fmt.Errorf("save motoboy: %w", err)
		}
		return normalize.Motoboy(created), nil
	}

	changes := make(map[string]any, len(record))
	for k, v := range record {
		if k == "id" {
			continue
		}
		changes[k] = v
	}
	changes["updatedAt"] = now

	updated, err := updateCollectionItem(ctx, s.store, store.CollectionMotoboys, id, changes)
	if err != nil {
		return nil, fmt.Errorf("save motoboy %s: %w", id, err)
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: %s", ErrMotoboyNotFound, id)
	}
	return normalize.Motoboy(updated), nil
}

// ToggleMotoboyActive выставляет флаг активности курьера.
func (s *MotoboysServiceImpl) ToggleMotoboyActive(ctx context.Context, id string, next any) (*models.Motoboy, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}
	if id == "" {
		return nil, ErrMissingMotoboyID
	}

	changes := map[string]any{
		"active":    cast.ToBool(next),
		"updatedAt": nowISO(),
	}
	updated, err := updateCollectionItem(ctx, s.store, store.CollectionMotoboys, id, changes)
	if err != nil {
		return nil, fmt.Errorf("toggle motoboy %s: %w", id, err)
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: %s", ErrMotoboyNotFound, id)
	}
	return normalize.Motoboy(updated), nil
}

// GenerateMotoboyQr генерирует и сохраняет свежий QR-токен курьера.
func (s *MotoboysServiceImpl) GenerateMotoboyQr(ctx context.Context, id string) (string, error) {
	if s.store == nil {
		return "", ErrStoreUnavailable
	}
	if id == "" {
		return "", ErrMissingMotoboyID
	}

	token := ident.BuildQRToken()
	changes := map[string]any{
		"qrToken":   token,
		"updatedAt": nowISO(),
	}
	updated, err := updateCollectionItem(ctx, s.store, store.CollectionMotoboys, id, changes)
	if err != nil {
		return "", fmt.Errorf("generate qr for motoboy %s: %w", id, err)
	}
	if updated == nil {
		return "", fmt.Errorf("%w: %s", ErrMotoboyNotFound, id)
	}
	return token, nil
}

// AddMotoboyTip добавляет чаевые: свежее чтение, новая запись в начало
// списка, пересчёт tipsTotal и условная запись по версии. Конфликт
// версий повторяется ограниченное число раз.
func (s *MotoboysServiceImpl) AddMotoboyTip(ctx context.Context, id string, tipDraft map[string]any) (*models.Tip, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}
	if id == "" {
		return nil, ErrMissingMotoboyID
	}
	if tipDraft == nil {
		return nil, fmt.Errorf("%w: tip draft is required", ErrInvalidPayload)
	}

	amount := money.Normalize(tipDraft["amount"])
	if amount <= 0 {
		return nil, ErrInvalidTipAmount
	}

	for attempt := 0; attempt < tipRetries; attempt++ {
		current, err := s.loadMotoboy(ctx, id)
		if err != nil {
			return nil, err
		}

		now := nowISO()
		tipID := cast.ToString(tipDraft["id"])
		if tipID == "" {
			tipID = ident.CreateID("tip")
		}
		tip := models.Tip{
			ID:        tipID,
			Amount:    amount,
			Note:      cast.ToString(tipDraft["note"]),
			At:        cast.ToString(tipDraft["at"]),
			CreatedAt: now,
		}
		if tip.At == "" {
			tip.At = now
		}

		tips := make([]models.Tip, 0, len(current.Tips)+1)
		tips = append(tips, tip)
		tips = append(tips, current.Tips...)

		amounts := make([]float64, len(tips))
		for i, t := range tips {
			amounts[i] = t.Amount
		}

		changes := map[string]any{
			"tips":      tipRecords(tips),
			"tipsTotal": money.SumAmounts(amounts),
			"updatedAt": now,
		}

		cu, ok := s.store.(store.ConditionalUpdater)
		if !ok {
			// Бэкенд без CAS: запись подвержена гонке потерянного
			// обновления между двумя одновременными чаевыми.
			if _, err := updateCollectionItem(ctx, s.store, store.CollectionMotoboys, current.ID, changes); err != nil {
				return nil, fmt.Errorf("add tip to motoboy %s: %w", id, err)
			}
			return &tip, nil
		}

		_, err = cu.UpdateItemCAS(ctx, store.CollectionMotoboys, current.ID, changes, current.Version)
		if errors.Is(err, store.ErrVersionConflict) {
			s.logger.Printf("add tip to motoboy %s: version conflict, retrying", id)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("add tip to motoboy %s: %w", id, err)
		}
		return &tip, nil
	}

	return nil, fmt.Errorf("add tip to motoboy %s: %w", id, store.ErrVersionConflict)
}

// loadMotoboy читает коллекцию и находит курьера по id (или _id).
func (s *MotoboysServiceImpl) loadMotoboy(ctx context.Context, id string) (*models.Motoboy, error) {
	data, err := s.store.Get(ctx, store.CollectionMotoboys)
	if err != nil {
		return nil, fmt.Errorf("read motoboys: %w", err)
	}
	for _, raw := range store.Items(data) {
		if matchesID(raw, id) {
			return normalize.Motoboy(raw), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrMotoboyNotFound, id)
}

func tipRecords(tips []models.Tip) []any {
	out := make([]any, len(tips))
	for i, t := range tips {
		out[i] = map[string]any{
			"id":        t.ID,
			"amount":    t.Amount,
			"note":      t.Note,
			"at":        t.At,
			"createdAt": t.CreatedAt,
		}
	}
	return out
}
