// internal/usecase/errors.go
package usecase

import "errors"

// Ошибки уровня usecase. Транспорт переводит их в HTTP-статусы;
// низкоуровневые ошибки jwt/bcrypt/pgx/redis наружу не выходят.
var (
	// ErrUserAlreadyExists — регистрация с занятым username.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidCredentials — неизвестный username или неверный пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized — токен не прошёл резолюцию (подпись, срок, тип, subject).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden — ресурс отсутствует или принадлежит другому пользователю.
	ErrForbidden = errors.New("forbidden")
)
