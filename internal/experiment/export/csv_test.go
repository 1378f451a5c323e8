package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/louisbranch/encodingtask/internal/experiment"
)

const utf8BOM = "\xef\xbb\xbf"

func sampleRecords() []experiment.ResultRecord {
	p := experiment.Participant{ID: "S07", Group: 2, Gender: experiment.GenderMale, Age: "21", Handedness: experiment.HandednessLeft}
	at := time.Date(2026, 5, 2, 14, 3, 9, 0, time.UTC)
	return []experiment.ResultRecord{
		{Participant: p, Trial: 1, TargetWords: []string{"苹果", "河流"}, AudioFilename: "S07_Trial1.wav", CueWord: "水果", Timestamp: at},
		{Participant: p, Trial: 2, TargetWords: []string{"月亮", "桌子"}, CueWord: "夜晚, 家具", Timestamp: at.Add(time.Minute)},
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 1, 9, 8, 7, 6, 0, time.UTC)
	got := FileName(3, "S01", at)
	want := "encoding_G3SS01_20260109_080706.csv"
	if got != want {
		t.Fatalf("FileName() = %q, want %q", got, want)
	}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecords()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, utf8BOM) {
		t.Fatalf("output missing byte order mark: %q", out[:min(len(out), 8)])
	}

	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, utf8BOM))).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	want := [][]string{
		Header,
		{"2", "S07", "male", "21", "left", "1", "苹果, 河流", "S07_Trial1.wav", "水果", "2026-05-02 14:03:09"},
		{"2", "S07", "male", "21", "left", "2", "月亮, 桌子", "", "夜晚, 家具", "2026-05-02 14:04:09"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("csv rows mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCSVHeaderOnly(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	want := utf8BOM + strings.Join(Header, ",") + "\n"
	if buf.String() != want {
		t.Fatalf("WriteCSV() = %q, want %q", buf.String(), want)
	}
}

func TestSaveFile(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "out")
	path, err := SaveFile(dir, "encoding_G2SS07_20260502_140309.csv", sampleRecords())
	if err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("SaveFile() path = %q, want under %q", path, dir)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if got := strings.Count(string(data), "\n"); got != 3 {
		t.Fatalf("lines = %d, want 3", got)
	}

	if _, err := SaveFile(dir, "../escape.csv", nil); err == nil {
		t.Fatal("expected error for name outside dir")
	}
}
