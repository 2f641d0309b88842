package customHttpClient

import (
	"net/http"
	"sync"

	"github.com/vgorule/GeminiQA/internal/config"
)

var once sync.Once
var pooled *http.Client

// Pooled returns a shared client with connection reuse tuned for the
// repeated large downloads the YouTube path performs.
func Pooled() *http.Client {
	once.Do(func() {
		pooled = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        config.MaxIdleConns,
				MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
				IdleConnTimeout:     config.IdleConnTimeout,
			},
		}
	})
	return pooled
}
