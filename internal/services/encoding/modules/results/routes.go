package results

import (
	"net/http"

	"github.com/louisbranch/encodingtask/internal/services/encoding/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Results, h.handleResults)
	mux.HandleFunc(http.MethodGet+" "+routepath.ResultsCSV, h.handleCSV)
}
