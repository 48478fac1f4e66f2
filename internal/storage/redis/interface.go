package redis

import (
	"context"
)

// RefreshTokenStore отслеживает действующие refresh-токены пользователей.
// Запись в хранилище обязательна для принятия refresh-токена: подпись сама
// по себе недостаточна. Отдельного revoke нет — записи умирают по TTL.
type RefreshTokenStore interface {
	// Save записывает маркер присутствия токена с настроенным TTL.
	// Повторная запись того же ключа идемпотентна.
	Save(ctx context.Context, userID, token string) error
	// Exists проверяет, числится ли токен за пользователем.
	Exists(ctx context.Context, userID, token string) (bool, error)
	// Close закрывает клиент и освобождает ресурсы.
	Close() error
}
