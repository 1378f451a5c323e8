package intake

import (
	"net/http"

	"github.com/louisbranch/encodingtask/internal/services/encoding/platform/httpx"
	"github.com/louisbranch/encodingtask/internal/services/encoding/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Root+"{$}", h.handleForm)
	mux.HandleFunc(http.MethodPost+" "+routepath.Root+"{$}", h.handleStart)
	mux.HandleFunc(http.MethodPost+" "+routepath.Restart, h.handleRestart)
	mux.HandleFunc(routepath.Restart, httpx.MethodNotAllowed(http.MethodPost))
}
