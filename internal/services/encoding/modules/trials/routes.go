package trials

import (
	"net/http"

	"github.com/louisbranch/encodingtask/internal/services/encoding/platform/httpx"
	"github.com/louisbranch/encodingtask/internal/services/encoding/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Trial, h.handleTrial)
	mux.HandleFunc(http.MethodGet+" "+routepath.TrialAudio, h.handlePlayback)
	mux.HandleFunc(http.MethodPost+" "+routepath.TrialAudio, h.handleAudio)
	mux.HandleFunc(http.MethodPost+" "+routepath.TrialCue, h.handleCue)
	mux.HandleFunc(routepath.TrialCue, httpx.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc(routepath.TrialAudio, httpx.MethodNotAllowed(http.MethodGet, http.MethodPost))
	mux.HandleFunc(routepath.Trial+"/", h.handleNotFound)
}
