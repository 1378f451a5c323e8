// Package export writes completed trial records as CSV.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/louisbranch/encodingtask/internal/experiment"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// FileTimeLayout formats the timestamp embedded in export file names.
const FileTimeLayout = "20060102_150405"

// Header lists the CSV columns in order.
var Header = []string{
	"group",
	"sub_id",
	"gender",
	"age",
	"handedness",
	"trial",
	"target_words",
	"audio_filename",
	"cue_word",
	"timestamp",
}

// FileName returns the export name for a participant finishing at at.
func FileName(group experiment.Group, subID string, at time.Time) string {
	return fmt.Sprintf("encoding_G%dS%s_%s.csv", group, subID, at.Format(FileTimeLayout))
}

// Row converts one record into CSV fields matching Header.
func Row(r experiment.ResultRecord) []string {
	return []string{
		strconv.Itoa(int(r.Participant.Group)),
		r.Participant.ID,
		string(r.Participant.Gender),
		r.Participant.Age,
		string(r.Participant.Handedness),
		strconv.Itoa(r.Trial),
		r.TargetText(),
		r.AudioFilename,
		r.CueWord,
		r.TimestampText(),
	}
}

// WriteCSV writes records to w as UTF-8 with a byte order mark so spreadsheet
// tools pick the right encoding for Chinese text.
func WriteCSV(w io.Writer, records []experiment.ResultRecord) error {
	bw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	cw := csv.NewWriter(bw)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(Row(r)); err != nil {
			return fmt.Errorf("write csv trial %d: %w", r.Trial, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := bw.Close(); err != nil {
		return fmt.Errorf("close csv: %w", err)
	}
	return nil
}

// SaveFile writes records into dir under name and returns the full path.
func SaveFile(dir, name string, records []experiment.ResultRecord) (path string, err error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid export name %q", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path = filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export %s: %w", name, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	if err := WriteCSV(f, records); err != nil {
		return "", err
	}
	return path, nil
}
