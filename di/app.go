package di

import (
	"tarmac/internal/sweeper"
	"tarmac/transport/http"
)

// App bundles the long-running pieces of the service: the HTTP server and the
// background expiry sweeper.
type App struct {
	HTTP    *http.HTTP
	Sweeper sweeper.Sweeper
}
