// Package lockout реализует учёт неудачных попыток входа и регистрации
// по идентификатору клиента (обычно IP) и решает, заблокирован ли клиент.
//
// Счётчики хранятся за интерфейсом Store (get/set/delete с TTL), поэтому
// одна и та же логика работает и с процессной картой, и с Redis.
// Компонент чисто информационный: ошибки хранилища не поднимаются наружу,
// а трактуются как отсутствие записи и пишутся в лог.
package lockout

import (
	"context"
	"time"
)

// Attempt — запись о неудачных попытках для одного идентификатора.
// Запись существует только пока FailedCount > 0 внутри активного окна.
type Attempt struct {
	FailedCount int       `json:"failed_count"` // Число неудачных попыток в окне
	WindowStart time.Time `json:"window_start"` // Время первой неудачи в окне
}

// Store описывает хранилище записей о попытках.
// Get возвращает nil без ошибки, если записи нет.
type Store interface {
	Get(ctx context.Context, key string) (*Attempt, error)
	Set(ctx context.Context, key string, attempt *Attempt, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
