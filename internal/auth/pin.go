package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPIN хеширует PIN оператора через bcrypt.
func HashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPIN сверяет PIN с хешем. Любая ошибка трактуется как несовпадение.
func CheckPIN(pin, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
