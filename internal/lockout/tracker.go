package lockout

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/kpl-l002/Wblog/internal/lib/sl"
)

// Tracker применяет пороги блокировки поверх Store.
// Для одного Tracker операции IsLockedOut, RecordFailure и RecordSuccess
// сериализуются мьютексом, чтобы две конкурирующие неудачи не потеряли инкремент.
type Tracker struct {
	store       Store
	maxAttempts int           // Порог, после которого идентификатор блокируется
	window      time.Duration // Длительность окна с момента первой неудачи
	log         *slog.Logger

	mu  sync.Mutex
	now func() time.Time // Подменяется в тестах
}

// NewTracker создает новый Tracker с заданными порогом и окном.
func NewTracker(store Store, maxAttempts int, window time.Duration, log *slog.Logger) *Tracker {
	return &Tracker{
		store:       store,
		maxAttempts: maxAttempts,
		window:      window,
		log:         log,
		now:         time.Now,
	}
}

// IsLockedOut сообщает, заблокирован ли идентификатор сейчас.
// Просроченная запись удаляется как побочный эффект проверки.
func (t *Tracker) IsLockedOut(ctx context.Context, identity string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	attempt := t.get(ctx, identity)
	if attempt == nil {
		return false
	}
	if t.now().Sub(attempt.WindowStart) >= t.window {
		t.delete(ctx, identity)
		return false
	}
	return attempt.FailedCount >= t.maxAttempts
}

// RecordFailure регистрирует неудачную попытку. Первая неудача открывает окно,
// последующие увеличивают счётчик. Счётчик не растёт выше порога,
// чтобы не копить неограниченные значения.
func (t *Tracker) RecordFailure(ctx context.Context, identity string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	attempt := t.get(ctx, identity)
	switch {
	case attempt == nil || t.now().Sub(attempt.WindowStart) >= t.window:
		attempt = &Attempt{FailedCount: 1, WindowStart: t.now()}
	case attempt.FailedCount < t.maxAttempts:
		attempt.FailedCount++
	default:
		return
	}
	if err := t.store.Set(ctx, identity, attempt, t.window); err != nil {
		t.log.Warn("failed to store lockout attempt", slog.String("identity", identity), sl.Err(err))
	}
}

// RecordSuccess безусловно очищает историю попыток для идентификатора.
func (t *Tracker) RecordSuccess(ctx context.Context, identity string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.delete(ctx, identity)
}

// RetryAfter возвращает оценку оставшегося времени блокировки в минутах,
// округлённую вверх. Для незаблокированного идентификатора возвращает 0.
func (t *Tracker) RetryAfter(ctx context.Context, identity string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	attempt := t.get(ctx, identity)
	if attempt == nil || attempt.FailedCount < t.maxAttempts {
		return 0
	}
	left := t.window - t.now().Sub(attempt.WindowStart)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Minutes()))
}

func (t *Tracker) get(ctx context.Context, identity string) *Attempt {
	attempt, err := t.store.Get(ctx, identity)
	if err != nil {
		t.log.Warn("failed to read lockout attempt", slog.String("identity", identity), sl.Err(err))
		return nil
	}
	return attempt
}

func (t *Tracker) delete(ctx context.Context, identity string) {
	if err := t.store.Delete(ctx, identity); err != nil {
		t.log.Warn("failed to delete lockout attempt", slog.String("identity", identity), sl.Err(err))
	}
}
