package templates

import (
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/louisbranch/encodingtask/internal/experiment"
	"github.com/louisbranch/encodingtask/internal/experiment/trial"
	"github.com/louisbranch/encodingtask/internal/services/encoding/routepath"
)

// IntakeForm is the participant form state, echoed back on validation errors.
type IntakeForm struct {
	SubID      string
	Group      string
	Gender     string
	Age        string
	Handedness string
	Error      string
	PoolSize   int
}

// TrialView is the state of one trial page.
type TrialView struct {
	Number        int
	Total         int
	Trial         trial.Trial
	AudioFilename string
	Cue           string
	AudioError    string
	CueError      string
}

// TrialPageTitle returns the localized trial page title.
func TrialPageTitle(view TrialView, loc Localizer) string {
	return T(loc, "trial.page_title", view.Number, view.Total)
}

func targetText(t trial.Trial) string {
	return strings.Join(t.Targets, experiment.TargetSeparator)
}

func audioURL(filename string) templ.SafeURL {
	return templ.SafeURL(routepath.TrialAudio + "?file=" + url.QueryEscape(filename))
}

// ResultsView is the state of the completion page.
type ResultsView struct {
	Records    []experiment.ResultRecord
	ExportFile string
}

var resultColumnKeys = []string{
	"results.col_trial",
	"results.col_targets",
	"results.col_audio",
	"results.col_cue",
	"results.col_time",
}
