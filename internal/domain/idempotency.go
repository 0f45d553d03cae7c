package domain

import (
	"strings"
	"time"
)

// IdempotencyRecord: запись в журнале использованных idempotency-key.
// Ключ записывается ровно один раз и никогда не удаляется.
type IdempotencyRecord struct {
	Key       string
	CreatedAt time.Time
}

// NormalizeIdempotencyKey обрезает пробелы; пустой результат означает невалидный ключ.
func NormalizeIdempotencyKey(key string) string {
	return strings.TrimSpace(key)
}
