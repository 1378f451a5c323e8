package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/louisbranch/encodingtask/internal/experiment"
	"github.com/louisbranch/encodingtask/internal/experiment/trial"
	sqlitemigrate "github.com/louisbranch/encodingtask/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/encodingtask/internal/services/encoding/storage"
	"github.com/louisbranch/encodingtask/internal/services/encoding/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists sessions in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.SessionStore = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis returns local time. Callers that need another zone convert.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value)
}

// Open opens a SQLite session store and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// SaveSession upserts the session and appends new child rows in one transaction.
func (s *Store) SaveSession(ctx context.Context, session storage.Session) (err error) {
	if err := s.ready(ctx); err != nil {
		return err
	}
	snap := session.Snapshot
	id := strings.TrimSpace(snap.ID)
	if id == "" {
		return fmt.Errorf("session id is required")
	}
	updatedAt := session.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	startedAt := snap.StartedAt
	if startedAt.IsZero() {
		startedAt = updatedAt
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save session: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	p := snap.Participant
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (
		   id, sub_id, group_n, gender, age, handedness,
		   seed, trial_index, export_file, started_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   trial_index = excluded.trial_index,
		   export_file = excluded.export_file,
		   updated_at = excluded.updated_at`,
		id, p.ID, int(p.Group), string(p.Gender), p.Age, string(p.Handedness),
		snap.Seed, snap.TrialIndex, session.ExportFile, toMillis(startedAt), toMillis(updatedAt),
	); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	for _, t := range snap.Trials {
		targets, grid, encErr := encodeTrial(t)
		if encErr != nil {
			err = encErr
			return err
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO session_trials (session_id, trial_index, targets_json, grid_json)
			 VALUES (?, ?, ?, ?)`,
			id, t.Index, targets, grid,
		); err != nil {
			return fmt.Errorf("insert trial %d: %w", t.Index, err)
		}
	}

	for _, index := range slices.Sorted(maps.Keys(snap.Audio)) {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO session_audio (session_id, trial_index, filename) VALUES (?, ?, ?)
			 ON CONFLICT(session_id, trial_index) DO UPDATE SET filename = excluded.filename`,
			id, index, snap.Audio[index],
		); err != nil {
			return fmt.Errorf("upsert audio %d: %w", index, err)
		}
	}

	for _, r := range snap.Results {
		words, encErr := json.Marshal(r.TargetWords)
		if encErr != nil {
			err = fmt.Errorf("encode result %d targets: %w", r.Trial, encErr)
			return err
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO session_results (
			   session_id, trial_number, target_words_json, audio_filename, cue_word, recorded_at
			 ) VALUES (?, ?, ?, ?, ?, ?)`,
			id, r.Trial, string(words), r.AudioFilename, r.CueWord, toMillis(r.Timestamp),
		); err != nil {
			return fmt.Errorf("insert result %d: %w", r.Trial, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save session: %w", err)
	}
	return nil
}

// GetSession loads one session with its trials, audio and results.
func (s *Store) GetSession(ctx context.Context, id string) (storage.Session, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Session{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Session{}, fmt.Errorf("session id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT sub_id, group_n, gender, age, handedness,
		        seed, trial_index, export_file, started_at, updated_at
		   FROM sessions
		  WHERE id = ?`,
		id,
	)
	var (
		out        storage.Session
		group      int
		gender     string
		handedness string
		startedAt  int64
		updatedAt  int64
	)
	snap := &out.Snapshot
	snap.ID = id
	err := row.Scan(
		&snap.Participant.ID,
		&group,
		&gender,
		&snap.Participant.Age,
		&handedness,
		&snap.Seed,
		&snap.TrialIndex,
		&out.ExportFile,
		&startedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Session{}, storage.ErrNotFound
		}
		return storage.Session{}, fmt.Errorf("get session: %w", err)
	}
	snap.Participant.Group = experiment.Group(group)
	snap.Participant.Gender = experiment.Gender(gender)
	snap.Participant.Handedness = experiment.Handedness(handedness)
	snap.StartedAt = fromMillis(startedAt)
	out.UpdatedAt = fromMillis(updatedAt)

	if snap.Trials, err = s.listTrials(ctx, id); err != nil {
		return storage.Session{}, err
	}
	if snap.Audio, err = s.listAudio(ctx, id); err != nil {
		return storage.Session{}, err
	}
	if snap.Results, err = s.listResults(ctx, id, snap.Participant); err != nil {
		return storage.Session{}, err
	}
	return out, nil
}

// DeleteSession removes a session and its child rows. Missing sessions are
// not an error.
func (s *Store) DeleteSession(ctx context.Context, id string) (err error) {
	if err := s.ready(ctx); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("session id is required")
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete session: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for _, table := range []string{"session_results", "session_audio", "session_trials"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE session_id = ?", id); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete session: %w", err)
	}
	return nil
}

func (s *Store) listTrials(ctx context.Context, id string) ([]trial.Trial, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT trial_index, targets_json, grid_json
		   FROM session_trials
		  WHERE session_id = ?
		  ORDER BY trial_index`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("list trials: %w", err)
	}
	defer rows.Close()

	var out []trial.Trial
	for rows.Next() {
		var (
			t       trial.Trial
			targets string
			grid    string
		)
		if err := rows.Scan(&t.Index, &targets, &grid); err != nil {
			return nil, fmt.Errorf("scan trial: %w", err)
		}
		if err := json.Unmarshal([]byte(targets), &t.Targets); err != nil {
			return nil, fmt.Errorf("decode trial %d targets: %w", t.Index, err)
		}
		if err := json.Unmarshal([]byte(grid), &t.Grid); err != nil {
			return nil, fmt.Errorf("decode trial %d grid: %w", t.Index, err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trials: %w", err)
	}
	return out, nil
}

func (s *Store) listAudio(ctx context.Context, id string) (map[int]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT trial_index, filename FROM session_audio WHERE session_id = ?`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("list audio: %w", err)
	}
	defer rows.Close()

	out := map[int]string{}
	for rows.Next() {
		var (
			index    int
			filename string
		)
		if err := rows.Scan(&index, &filename); err != nil {
			return nil, fmt.Errorf("scan audio: %w", err)
		}
		out[index] = filename
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audio: %w", err)
	}
	return out, nil
}

func (s *Store) listResults(ctx context.Context, id string, p experiment.Participant) ([]experiment.ResultRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT trial_number, target_words_json, audio_filename, cue_word, recorded_at
		   FROM session_results
		  WHERE session_id = ?
		  ORDER BY trial_number`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []experiment.ResultRecord
	for rows.Next() {
		var (
			r          = experiment.ResultRecord{Participant: p}
			words      string
			recordedAt int64
		)
		if err := rows.Scan(&r.Trial, &words, &r.AudioFilename, &r.CueWord, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if err := json.Unmarshal([]byte(words), &r.TargetWords); err != nil {
			return nil, fmt.Errorf("decode result %d targets: %w", r.Trial, err)
		}
		r.Timestamp = fromMillis(recordedAt)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return out, nil
}

func encodeTrial(t trial.Trial) (string, string, error) {
	targets, err := json.Marshal(t.Targets)
	if err != nil {
		return "", "", fmt.Errorf("encode trial %d targets: %w", t.Index, err)
	}
	grid, err := json.Marshal(t.Grid)
	if err != nil {
		return "", "", fmt.Errorf("encode trial %d grid: %w", t.Index, err)
	}
	return string(targets), string(grid), nil
}
