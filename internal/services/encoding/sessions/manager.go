// Package sessions coordinates participant sessions for the web surface:
// intake, trial progression, audio capture and CSV export, backed by storage.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/encodingtask/internal/experiment"
	"github.com/louisbranch/encodingtask/internal/experiment/audio"
	"github.com/louisbranch/encodingtask/internal/experiment/export"
	"github.com/louisbranch/encodingtask/internal/experiment/trial"
	"github.com/louisbranch/encodingtask/internal/experiment/wordpool"
	"github.com/louisbranch/encodingtask/internal/platform/id"
	"github.com/louisbranch/encodingtask/internal/random"
	"github.com/louisbranch/encodingtask/internal/services/encoding/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrNotFound reports an unknown or forgotten session id.
var ErrNotFound = errors.New("session not found")

var tracer = otel.Tracer("github.com/louisbranch/encodingtask/internal/services/encoding/sessions")

// Config wires a Manager.
type Config struct {
	Pool         wordpool.Pool
	Store        storage.SessionStore
	Audio        *audio.Store
	ExportDir    string
	Seed         random.SeedFunc
	NewID        func() (string, error)
	Now          func() time.Time
	// Location is the zone record timestamps and export names are written
	// in. Defaults to time.Local.
	Location     *time.Location
	RequireAudio bool
}

// TrialView is what the trial page shows.
type TrialView struct {
	SessionID     string
	Participant   experiment.Participant
	Number        int
	Total         int
	Trial         trial.Trial
	AudioFilename string
}

// Summary is what the results page shows.
type Summary struct {
	SessionID   string
	Participant experiment.Participant
	Results     []experiment.ResultRecord
	Complete    bool
	ExportFile  string
}

type entry struct {
	session    *experiment.Session
	exportFile string
}

// Manager owns live sessions. Mutations are serialized by one mutex; the
// intended load is a single participant at a time.
type Manager struct {
	mu           sync.Mutex
	live         map[string]*entry
	pool         wordpool.Pool
	store        storage.SessionStore
	audio        *audio.Store
	exportDir    string
	seed         random.SeedFunc
	newID        func() (string, error)
	now          func() time.Time
	loc          *time.Location
	requireAudio bool
}

// NewManager validates cfg and returns a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Store == nil {
		return nil, errors.New("session store is required")
	}
	if cfg.Audio == nil {
		return nil, errors.New("audio store is required")
	}
	if strings.TrimSpace(cfg.ExportDir) == "" {
		return nil, errors.New("export dir is required")
	}
	if cfg.Seed == nil {
		cfg.Seed = random.NewSeed
	}
	if cfg.NewID == nil {
		cfg.NewID = id.NewID
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Manager{
		live:         map[string]*entry{},
		pool:         cfg.Pool,
		store:        cfg.Store,
		audio:        cfg.Audio,
		exportDir:    cfg.ExportDir,
		seed:         cfg.Seed,
		newID:        cfg.NewID,
		now:          cfg.Now,
		loc:          cfg.Location,
		requireAudio: cfg.RequireAudio,
	}, nil
}

// PoolSize returns the number of distinct words available.
func (m *Manager) PoolSize() int {
	return m.pool.Len()
}

// RequireAudio reports whether a recording must exist before a cue is accepted.
func (m *Manager) RequireAudio() bool {
	return m.requireAudio
}

// Start validates intake, checks the pool and creates a session.
// Nothing is stored when validation fails.
func (m *Manager) Start(ctx context.Context, p experiment.Participant) (string, error) {
	ctx, span := tracer.Start(ctx, "sessions.Start")
	defer span.End()

	seed, err := m.seed()
	if err != nil {
		return "", fmt.Errorf("session seed: %w", err)
	}
	sessionID, err := m.newID()
	if err != nil {
		return "", fmt.Errorf("session id: %w", err)
	}
	session, err := experiment.NewSession(sessionID, p, m.pool, seed, m.clock())
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	e := &entry{session: session}
	if err := m.save(ctx, e); err != nil {
		return "", err
	}
	m.live[sessionID] = e
	span.SetAttributes(attribute.String("session.id", sessionID), attribute.Int("participant.group", int(session.Participant().Group)))
	log.Printf("session started session=%s sub_id=%s group=%d seed=%d", sessionID, session.Participant().ID, session.Participant().Group, seed)
	return sessionID, nil
}

// Current returns the current trial, generating and storing it on first view.
// A completed session returns experiment.ErrSessionComplete.
func (m *Manager) Current(ctx context.Context, sessionID string) (TrialView, error) {
	ctx, span := m.startSpan(ctx, "sessions.Current", sessionID)
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.lookup(ctx, sessionID)
	if err != nil {
		return TrialView{}, err
	}
	current, created, err := e.session.CurrentTrial()
	if err != nil {
		return TrialView{}, err
	}
	if created {
		if err := m.save(ctx, e); err != nil {
			return TrialView{}, err
		}
	}
	return TrialView{
		SessionID:     sessionID,
		Participant:   e.session.Participant(),
		Number:        e.session.TrialNumber(),
		Total:         experiment.TrialCount,
		Trial:         current,
		AudioFilename: e.session.AudioFilename(),
	}, nil
}

// SaveAudio stores a recording for the current trial and returns its file name.
// Recording again replaces the earlier take.
func (m *Manager) SaveAudio(ctx context.Context, sessionID string, data []byte) (string, error) {
	ctx, span := m.startSpan(ctx, "sessions.SaveAudio", sessionID)
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.lookup(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if e.session.Complete() {
		return "", experiment.ErrSessionComplete
	}
	filename, err := m.audio.Save(e.session.Participant().ID, e.session.TrialNumber(), data)
	if err != nil {
		return "", err
	}
	if err := e.session.AttachAudio(filename); err != nil {
		return "", err
	}
	if err := m.save(ctx, e); err != nil {
		return "", err
	}
	log.Printf("audio saved session=%s trial=%d file=%s bytes=%d", sessionID, e.session.TrialNumber(), filename, len(data))
	return filename, nil
}

// OpenAudio opens the current trial's recording for playback.
func (m *Manager) OpenAudio(ctx context.Context, sessionID string) (*os.File, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.lookup(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}
	filename := e.session.AudioFilename()
	if filename == "" {
		return nil, "", ErrNotFound
	}
	f, err := m.audio.Open(filename)
	if err != nil {
		return nil, "", fmt.Errorf("open recording %s: %w", filename, err)
	}
	return f, filename, nil
}

// SubmitCue records the cue for the current trial and advances. When the last
// trial completes the CSV export is written.
func (m *Manager) SubmitCue(ctx context.Context, sessionID, cue string) (experiment.ResultRecord, error) {
	ctx, span := m.startSpan(ctx, "sessions.SubmitCue", sessionID)
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.lookup(ctx, sessionID)
	if err != nil {
		return experiment.ResultRecord{}, err
	}
	if _, created, err := e.session.CurrentTrial(); err != nil {
		return experiment.ResultRecord{}, err
	} else if created {
		if err := m.save(ctx, e); err != nil {
			return experiment.ResultRecord{}, err
		}
	}
	record, err := e.session.SubmitCue(cue, m.clock(), m.requireAudio)
	if err != nil {
		return experiment.ResultRecord{}, err
	}
	if err := m.save(ctx, e); err != nil {
		return experiment.ResultRecord{}, err
	}
	log.Printf("trial completed session=%s trial=%d cue=%q audio=%q", sessionID, record.Trial, record.CueWord, record.AudioFilename)
	if e.session.Complete() {
		if err := m.exportOnce(ctx, e); err != nil {
			return record, err
		}
	}
	return record, nil
}

// Summary returns the session's records and export file. A completed session
// whose export failed earlier is exported again here.
func (m *Manager) Summary(ctx context.Context, sessionID string) (Summary, error) {
	ctx, span := m.startSpan(ctx, "sessions.Summary", sessionID)
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.lookup(ctx, sessionID)
	if err != nil {
		return Summary{}, err
	}
	if e.session.Complete() {
		if err := m.exportOnce(ctx, e); err != nil {
			return Summary{}, err
		}
	}
	return Summary{
		SessionID:   sessionID,
		Participant: e.session.Participant(),
		Results:     e.session.Results(),
		Complete:    e.session.Complete(),
		ExportFile:  e.exportFile,
	}, nil
}

// WriteCSV writes the session's records to w and returns the download name.
func (m *Manager) WriteCSV(ctx context.Context, sessionID string, w io.Writer) (string, error) {
	summary, err := m.Summary(ctx, sessionID)
	if err != nil {
		return "", err
	}
	name := summary.ExportFile
	if name == "" {
		name = export.FileName(summary.Participant.Group, summary.Participant.ID, m.clock())
	}
	if err := export.WriteCSV(w, summary.Results); err != nil {
		return "", err
	}
	return name, nil
}

// Forget drops a session from memory and storage. Files already written
// (audio and CSV) are kept.
func (m *Manager) Forget(ctx context.Context, sessionID string) error {
	ctx, span := m.startSpan(ctx, "sessions.Forget", sessionID)
	defer span.End()

	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.live, sessionID)
	if err := m.store.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("forget session %s: %w", sessionID, err)
	}
	log.Printf("session forgotten session=%s", sessionID)
	return nil
}

// lookup finds a live session, restoring it from storage when needed.
// Callers hold m.mu.
func (m *Manager) lookup(ctx context.Context, sessionID string) (*entry, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrNotFound
	}
	if e, ok := m.live[sessionID]; ok {
		return e, nil
	}
	stored, err := m.store.GetSession(ctx, sessionID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	session, err := experiment.RestoreSession(m.localize(stored.Snapshot), m.pool)
	if err != nil {
		return nil, err
	}
	e := &entry{session: session, exportFile: stored.ExportFile}
	m.live[sessionID] = e
	log.Printf("session restored session=%s trial=%d", sessionID, session.TrialNumber())
	return e, nil
}

// clock returns the current time in the manager's location.
func (m *Manager) clock() time.Time {
	return m.now().In(m.loc)
}

// localize moves stored timestamps into the manager's location so restored
// records format like records written by this process.
func (m *Manager) localize(snap experiment.Snapshot) experiment.Snapshot {
	snap.StartedAt = snap.StartedAt.In(m.loc)
	for i := range snap.Results {
		snap.Results[i].Timestamp = snap.Results[i].Timestamp.In(m.loc)
	}
	return snap
}

// save persists e. On failure the live entry is dropped so the next request
// reloads the last stored state instead of the unsaved one. Callers hold m.mu.
func (m *Manager) save(ctx context.Context, e *entry) error {
	if err := m.store.SaveSession(ctx, storage.Session{
		Snapshot:   e.session.Snapshot(),
		ExportFile: e.exportFile,
		UpdatedAt:  m.clock(),
	}); err != nil {
		delete(m.live, e.session.ID())
		return fmt.Errorf("save session %s: %w", e.session.ID(), err)
	}
	return nil
}

func (m *Manager) exportOnce(ctx context.Context, e *entry) error {
	if e.exportFile != "" {
		return nil
	}
	p := e.session.Participant()
	name := export.FileName(p.Group, p.ID, m.clock())
	path, err := export.SaveFile(m.exportDir, name, e.session.Results())
	if err != nil {
		return fmt.Errorf("export session %s: %w", e.session.ID(), err)
	}
	e.exportFile = name
	if err := m.save(ctx, e); err != nil {
		return err
	}
	log.Printf("session exported session=%s path=%s rows=%d", e.session.ID(), path, len(e.session.Results()))
	return nil
}

func (m *Manager) startSpan(ctx context.Context, name, sessionID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attribute.String("session.id", sessionID)))
}
