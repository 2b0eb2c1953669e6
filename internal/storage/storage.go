package storage

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrMarketplaceNotFound = errors.New("marketplace not found")
	ErrDuplicatePrice      = errors.New("price for marketplace already exists")
)

// коды ошибок postgres, которые мы различаем
const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
)

// pgErrorCode достает SQLSTATE независимо от драйвера (lib/pq или pgx)
func pgErrorCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == codeForeignKeyViolation
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == codeUniqueViolation
}
