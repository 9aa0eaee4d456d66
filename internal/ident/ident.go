package ident

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// CreateID генерирует идентификатор вида "<prefix>-<epoch-millis>-<hex>".
// Уникальность — best effort (время + случайность); первичную идентичность
// записи подтверждает хранилище.
func CreateID(prefix string) string {
	return fmt.Sprintf("%s-%d-%x", prefix, time.Now().UnixMilli(), rand.Uint64())
}

// BuildQRToken генерирует токен QR-кода курьера "motoboy-qr-<uuid>".
// Если криптографический источник случайности недоступен, откатывается
// на CreateID. Никогда не возвращает ошибку.
func BuildQRToken() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return CreateID("motoboy-qr")
	}
	return "motoboy-qr-" + id.String()
}
