package ports

import "net/http"

// HTTPClient — минимальный контракт HTTP-клиента для удалённого шлюза.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
