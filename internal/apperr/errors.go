// Package apperr содержит общую таксономию ошибок сервиса.
// Слой API сопоставляет их с HTTP статусами через errors.Is.
package apperr

import "errors"

var (
	// ErrValidation — некорректный или неполный ввод. Без побочных эффектов.
	ErrValidation = errors.New("validation error")

	// ErrInvalidAmount — сумма должна быть больше нуля.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds — на балансе недостаточно средств.
	// Сумма никогда не урезается молча.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNotFound — пользователь, сделка или заявка не найдены.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyResolved — заявка уже обработана (терминальный статус).
	ErrAlreadyResolved = errors.New("already resolved")

	// ErrUserBlocked — заблокированный пользователь: все операции
	// с кошельком отклоняются.
	ErrUserBlocked = errors.New("user is blocked")

	// ErrUnauthorized — подпись initData или токен не прошли проверку.
	ErrUnauthorized = errors.New("unauthorized")
)
