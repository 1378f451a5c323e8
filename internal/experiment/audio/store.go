// Package audio stores per-trial voice recordings as WAV files.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrEmptyRecording reports an upload with no bytes.
	ErrEmptyRecording = errors.New("audio recording is empty")
	// ErrNotWAV reports an upload without a RIFF/WAVE header.
	ErrNotWAV = errors.New("audio recording is not a wav file")
)

const wavHeaderSize = 12

// IsWAV reports whether data starts with a RIFF/WAVE header.
func IsWAV(data []byte) bool {
	if len(data) < wavHeaderSize {
		return false
	}
	return bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE"))
}

// FileName returns the recording name for a participant's trial.
func FileName(subID string, trialNumber int) string {
	return fmt.Sprintf("%s_Trial%d.wav", subID, trialNumber)
}

// Store writes recordings into a single directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created on first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory recordings are written to.
func (s *Store) Dir() string {
	if s == nil {
		return ""
	}
	return s.dir
}

// Save writes data as the trial's recording and returns its file name.
// A second save for the same trial replaces the first.
func (s *Store) Save(subID string, trialNumber int, data []byte) (string, error) {
	if s == nil {
		return "", errors.New("audio store is not configured")
	}
	subID = strings.TrimSpace(subID)
	if subID == "" || strings.ContainsAny(subID, `/\`) {
		return "", fmt.Errorf("invalid participant id %q", subID)
	}
	if trialNumber < 1 {
		return "", fmt.Errorf("invalid trial number %d", trialNumber)
	}
	if len(data) == 0 {
		return "", ErrEmptyRecording
	}
	if !IsWAV(data) {
		return "", ErrNotWAV
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}

	name := FileName(subID, trialNumber)
	tmp, err := os.CreateTemp(s.dir, ".recording-*.wav")
	if err != nil {
		return "", fmt.Errorf("create temp recording: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write recording: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close recording: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("store recording %s: %w", name, err)
	}
	return name, nil
}

// Open returns the stored recording for playback.
func (s *Store) Open(name string) (*os.File, error) {
	if s == nil {
		return nil, errors.New("audio store is not configured")
	}
	if name == "" || name != filepath.Base(name) || !strings.HasSuffix(name, ".wav") {
		return nil, fmt.Errorf("invalid recording name %q", name)
	}
	return os.Open(filepath.Join(s.dir, name))
}
