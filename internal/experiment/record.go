package experiment

import (
	"strings"
	"time"
)

// TimestampLayout formats ResultRecord timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// TargetSeparator joins target words in exported records.
const TargetSeparator = ", "

// ResultRecord is one completed trial.
type ResultRecord struct {
	Participant   Participant
	Trial         int
	TargetWords   []string
	AudioFilename string
	CueWord       string
	Timestamp     time.Time
}

// TargetText returns the target words joined for export.
func (r ResultRecord) TargetText() string {
	return strings.Join(r.TargetWords, TargetSeparator)
}

// TimestampText returns the record timestamp in TimestampLayout.
func (r ResultRecord) TimestampText() string {
	if r.Timestamp.IsZero() {
		return ""
	}
	return r.Timestamp.Format(TimestampLayout)
}
