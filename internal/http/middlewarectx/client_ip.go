package middlewarectx

import (
	"net"
	"net/http"
	"strings"
)

// UnknownIP подставляется, когда адрес клиента определить не удалось.
// Такие клиенты считают попытки входа в общий счётчик.
const UnknownIP = "UNKNOWN"

// ClientIP возвращает адрес клиента для учёта попыток входа.
// Приоритет: первый адрес из X-Forwarded-For, затем RemoteAddr.
// Заголовку доверяем, потому что сервис работает за обратным прокси.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if r.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			return host
		}
		return r.RemoteAddr
	}

	return UnknownIP
}
