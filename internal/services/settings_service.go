package services

import (
	"context"
	"encoding/json"
	"log"

	"github.com/agamariel/annetom/internal/models"
	"github.com/agamariel/annetom/internal/store"
)

// settingsFallbackKey — ключ зеркала настроек в локальном KV.
const settingsFallbackKey = "annetom-settings"

// SettingsService определяет фасад единого документа настроек.
type SettingsService interface {
	GetSettings(ctx context.Context) models.Settings
	UpdateSettings(ctx context.Context, values models.Settings) bool
}

// SettingsServiceImpl реализует SettingsService поверх основного
// хранилища с зеркалом в локальном KV на случай его недоступности.
type SettingsServiceImpl struct {
	store  store.Store
	local  store.LocalKV
	logger *log.Logger
}

// NewSettingsService создаёт новый фасад настроек.
func NewSettingsService(st store.Store, local store.LocalKV, logger *log.Logger) *SettingsServiceImpl {
	if logger == nil {
		logger = log.Default()
	}
	return &SettingsServiceImpl{store: st, local: local, logger: logger}
}

// GetSettings читает документ настроек. При сбое основного хранилища
// возвращается локальное зеркало, а в крайнем случае пустая карта —
// ошибка наружу не отдаётся.
func (s *SettingsServiceImpl) GetSettings(ctx context.Context) models.Settings {
	if s.store != nil {
		data, err := s.store.Get(ctx, store.CollectionSettings)
		if err == nil {
			if m, ok := data.(map[string]any); ok {
				return models.Settings(m)
			}
		} else {
			s.logger.Printf("get settings: %v", err)
		}
	} else {
		s.logger.Printf("get settings: store is not available")
	}

	if fallback := s.readLocal(); fallback != nil {
		return fallback
	}
	return models.Settings{}
}

// UpdateSettings записывает документ настроек и обновляет локальное
// зеркало. Возвращает false, если основная запись не удалась.
func (s *SettingsServiceImpl) UpdateSettings(ctx context.Context, values models.Settings) bool {
	if values == nil {
		values = models.Settings{}
	}

	if s.store == nil {
		s.logger.Printf("update settings: store is not available")
		s.writeLocal(values)
		return false
	}

	if err := s.store.Set(ctx, store.CollectionSettings, map[string]any(values)); err != nil {
		s.logger.Printf("update settings: %v", err)
		s.writeLocal(values)
		return false
	}

	s.writeLocal(values)
	return true
}

func (s *SettingsServiceImpl) readLocal() models.Settings {
	if s.local == nil {
		return nil
	}
	value, ok, err := s.local.GetItem(settingsFallbackKey)
	if err != nil {
		s.logger.Printf("get settings fallback: %v", err)
		return nil
	}
	if !ok {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(value), &m); err != nil {
		s.logger.Printf("decode settings fallback: %v", err)
		return nil
	}
	return models.Settings(m)
}

func (s *SettingsServiceImpl) writeLocal(values models.Settings) {
	if s.local == nil {
		return
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		s.logger.Printf("encode settings fallback: %v", err)
		return
	}
	if err := s.local.SetItem(settingsFallbackKey, string(encoded)); err != nil {
		s.logger.Printf("write settings fallback: %v", err)
	}
}
