// internal/auth/password.go

package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword возвращает bcrypt-хеш с новой случайной солью.
// Два вызова на одном пароле дают разные строки.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword сравнивает пароль с хешем за константное время.
// Любой битый хеш трактуется как несовпадение, без ошибки.
func VerifyPassword(password, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
}

// MitigateTimingAttack прогоняет хешер на переданном пароле, когда
// пользователь не найден, чтобы путь ошибки не был заметно быстрее
// успешного. Подход позаимствован у Django (ticket #20760).
func MitigateTimingAttack(password string) {
	_, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}
