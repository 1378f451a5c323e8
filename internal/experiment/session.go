package experiment

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/louisbranch/encodingtask/internal/experiment/trial"
	"github.com/louisbranch/encodingtask/internal/experiment/wordpool"
	"github.com/louisbranch/encodingtask/internal/random"
)

// TrialCount is the number of trials in one session.
const TrialCount = 10

// RequiredPoolSize returns how many words a group needs before a session may
// start: enough for every trial's targets and never fewer than one grid.
func RequiredPoolSize(g Group) int {
	return max(TrialCount*g.TargetCount(), trial.GridSize)
}

// Session is one participant's run. It is not safe for concurrent use.
type Session struct {
	id          string
	participant Participant
	seed        int64
	startedAt   time.Time
	pool        wordpool.Pool
	trialIndex  int
	trials      *trial.Cache
	audio       map[int]string
	results     []ResultRecord
}

// NewSession validates intake and checks the pool before any trial state exists.
func NewSession(id string, p Participant, pool wordpool.Pool, seed int64, now time.Time) (*Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("session id is required")
	}
	p = p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if need := RequiredPoolSize(p.Group); pool.Len() < need {
		return nil, fmt.Errorf("%w: have %d words, group %d needs %d", trial.ErrPoolExhausted, pool.Len(), p.Group, need)
	}
	return &Session{
		id:          id,
		participant: p,
		seed:        seed,
		startedAt:   now.UTC(),
		pool:        pool,
		trials:      trial.NewCache(),
		audio:       map[int]string{},
	}, nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Participant returns the intake record.
func (s *Session) Participant() Participant { return s.participant }

// Seed returns the seed trials are derived from.
func (s *Session) Seed() int64 { return s.seed }

// StartedAt returns when intake completed.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// TrialIndex returns the 0-based index of the current trial.
func (s *Session) TrialIndex() int { return s.trialIndex }

// TrialNumber returns the 1-based number of the current trial.
func (s *Session) TrialNumber() int { return s.trialIndex + 1 }

// Complete reports whether every trial has a result.
func (s *Session) Complete() bool { return s.trialIndex >= TrialCount }

// CurrentTrial returns the current trial, generating it on first access.
// The bool reports whether this call generated it.
func (s *Session) CurrentTrial() (trial.Trial, bool, error) {
	if s.Complete() {
		return trial.Trial{}, false, ErrSessionComplete
	}
	index := s.trialIndex
	return s.trials.GetOrCreate(index, func() (trial.Trial, error) {
		return trial.Generate(index, s.pool.Words(), s.participant.Group.TargetCount(), trial.GridSize, random.Stream(s.seed, uint64(index)))
	})
}

// AudioFilename returns the audio captured for the current trial.
func (s *Session) AudioFilename() string {
	return s.audio[s.trialIndex]
}

// AttachAudio records the audio file for the current trial, replacing any
// earlier recording of the same trial.
func (s *Session) AttachAudio(filename string) error {
	if s.Complete() {
		return ErrSessionComplete
	}
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return fmt.Errorf("audio filename is required")
	}
	s.audio[s.trialIndex] = filename
	return nil
}

// SubmitCue completes the current trial. Blank cues leave the trial in place.
func (s *Session) SubmitCue(cue string, now time.Time, requireAudio bool) (ResultRecord, error) {
	if s.Complete() {
		return ResultRecord{}, ErrSessionComplete
	}
	cue = strings.TrimSpace(cue)
	if cue == "" {
		return ResultRecord{}, ErrEmptyCue
	}
	audio := s.audio[s.trialIndex]
	if requireAudio && audio == "" {
		return ResultRecord{}, ErrAudioRequired
	}
	current, _, err := s.CurrentTrial()
	if err != nil {
		return ResultRecord{}, err
	}
	record := ResultRecord{
		Participant:   s.participant,
		Trial:         s.trialIndex + 1,
		TargetWords:   slices.Clone(current.Targets),
		AudioFilename: audio,
		CueWord:       cue,
		Timestamp:     now,
	}
	s.results = append(s.results, record)
	s.trialIndex++
	return record, nil
}

// Results returns the completed trial records in order.
func (s *Session) Results() []ResultRecord {
	return slices.Clone(s.results)
}

// Snapshot is the persisted form of a Session.
type Snapshot struct {
	ID          string
	Participant Participant
	Seed        int64
	StartedAt   time.Time
	TrialIndex  int
	Trials      []trial.Trial
	Audio       map[int]string
	Results     []ResultRecord
}

// Snapshot captures the session for storage.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:          s.id,
		Participant: s.participant,
		Seed:        s.seed,
		StartedAt:   s.startedAt,
		TrialIndex:  s.trialIndex,
		Trials:      s.trials.All(),
		Audio:       maps.Clone(s.audio),
		Results:     slices.Clone(s.results),
	}
}

// RestoreSession rebuilds a session from storage. Stored trials are reused so
// a restored trial shows the same grid it showed before.
func RestoreSession(snap Snapshot, pool wordpool.Pool) (*Session, error) {
	if strings.TrimSpace(snap.ID) == "" {
		return nil, fmt.Errorf("session id is required")
	}
	if err := snap.Participant.Validate(); err != nil {
		return nil, fmt.Errorf("restore session %s: %w", snap.ID, err)
	}
	if snap.TrialIndex < 0 || snap.TrialIndex > TrialCount {
		return nil, fmt.Errorf("restore session %s: trial index %d out of range", snap.ID, snap.TrialIndex)
	}
	if len(snap.Results) != snap.TrialIndex {
		return nil, fmt.Errorf("restore session %s: %d results for trial index %d", snap.ID, len(snap.Results), snap.TrialIndex)
	}
	s := &Session{
		id:          snap.ID,
		participant: snap.Participant.Normalize(),
		seed:        snap.Seed,
		startedAt:   snap.StartedAt,
		pool:        pool,
		trialIndex:  snap.TrialIndex,
		trials:      trial.NewCache(),
		audio:       map[int]string{},
		results:     slices.Clone(snap.Results),
	}
	for _, t := range snap.Trials {
		s.trials.Put(t)
	}
	maps.Copy(s.audio, snap.Audio)
	return s, nil
}
