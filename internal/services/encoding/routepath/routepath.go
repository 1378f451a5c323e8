// Package routepath holds the encoding web route constants.
package routepath

const (
	Root       = "/"
	Restart    = "/restart"
	Trial      = "/trial"
	TrialAudio = "/trial/audio"
	TrialCue   = "/trial/cue"
	Results    = "/results"
	ResultsCSV = "/results.csv"

	StaticPrefix = "/static/"
	RecorderJS   = StaticPrefix + "recorder.js"
	Stylesheet   = StaticPrefix + "app.css"
)

// WithLang returns path with a language switch query.
func WithLang(path, lang string) string {
	if lang == "" {
		return path
	}
	return path + "?lang=" + lang
}
