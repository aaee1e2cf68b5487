// Package jwt реализует генерацию и парсинг JWT токенов с пользовательскими claim полями.
//
// Maker определяет интерфейс для создания и проверки JWT токенов с username и role.
// MakerImpl — конкретная реализация с использованием секретного ключа и
// раздельных сроков жизни для администраторов и обычных пользователей.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
//
// Методы позволяют создавать токен с указанием идентификатора пользователя,
// username и роли, а также разбирать токен и извлекать из него кастомные данные.
type Maker interface {
	// GenerateToken подписывает claims с userUID, username и role.
	// TTL выбирается по роли: у администратора токен живёт меньше.
	GenerateToken(userUID, username, role string) (string, error)
	// ParseToken возвращает *CustomClaims, либо одну из типизированных ошибок:
	// ErrTokenMalformed, ErrTokenExpired, ErrTokenInvalid.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и раздельного времени жизни токена для ролей admin и user.
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	adminTTL  time.Duration // Время жизни токена администратора.
	userTTL   time.Duration // Время жизни токена обычного пользователя.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, adminTTL, userTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		adminTTL:  adminTTL,
		userTTL:   userTTL,
	}
}
