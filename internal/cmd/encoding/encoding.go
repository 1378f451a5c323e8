// Package encoding parses encoding task flags and launches the service.
package encoding

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/encodingtask/internal/experiment/audio"
	"github.com/louisbranch/encodingtask/internal/experiment/trial"
	"github.com/louisbranch/encodingtask/internal/experiment/wordpool"
	entrypoint "github.com/louisbranch/encodingtask/internal/platform/cmd"
	platformi18n "github.com/louisbranch/encodingtask/internal/platform/i18n"
	"github.com/louisbranch/encodingtask/internal/random"
	server "github.com/louisbranch/encodingtask/internal/services/encoding"
	"github.com/louisbranch/encodingtask/internal/services/encoding/modules/trials"
	"github.com/louisbranch/encodingtask/internal/services/encoding/sessions"
	"github.com/louisbranch/encodingtask/internal/services/encoding/storage/sqlite"
)

// Config holds encoding command configuration.
type Config struct {
	HTTPAddr      string `env:"ENCODING_TASK_HTTP_ADDR" envDefault:"localhost:8501"`
	GRPCAddr      string `env:"ENCODING_TASK_GRPC_ADDR"`
	WordPool      string `env:"ENCODING_TASK_WORD_POOL" envDefault:"word_pool.txt"`
	DataDir       string `env:"ENCODING_TASK_DATA_DIR" envDefault:"data"`
	DBPath        string `env:"ENCODING_TASK_DB_PATH" envDefault:"data/encoding.db"`
	Seed          int64  `env:"ENCODING_TASK_SEED"`
	RequireAudio  bool   `env:"ENCODING_TASK_REQUIRE_AUDIO"`
	Locale        string `env:"ENCODING_TASK_LOCALE" envDefault:"zh-CN"`
	MaxAudioBytes int64  `env:"ENCODING_TASK_MAX_AUDIO_BYTES"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "gRPC health listen address (empty disables)")
	fs.StringVar(&cfg.WordPool, "word-pool", cfg.WordPool, "Word pool file or glob pattern")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory for recordings and CSV exports")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite session database path")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Fixed trial seed (0 draws one per session)")
	fs.BoolVar(&cfg.RequireAudio, "require-audio", cfg.RequireAudio, "Block cue submission until the trial has a recording")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the encoding task web service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceEncoding, func(ctx context.Context) error {
		return run(ctx, cfg)
	})
}

func run(ctx context.Context, cfg Config) error {
	lang, ok := platformi18n.ParseTag(cfg.Locale)
	if !ok {
		return fmt.Errorf("unsupported locale %q", cfg.Locale)
	}
	pool, err := wordpool.Load(cfg.WordPool)
	if err != nil {
		return fmt.Errorf("load word pool: %w", err)
	}
	if pool.Len() < trial.GridSize {
		return fmt.Errorf("word pool %s has %d words, need at least %d", cfg.WordPool, pool.Len(), trial.GridSize)
	}
	log.Printf("word pool loaded path=%s words=%d", cfg.WordPool, pool.Len())

	dataDir := strings.TrimSpace(cfg.DataDir)
	if dataDir == "" {
		return fmt.Errorf("data dir is required")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	store, err := openStore(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close session store: %v", err)
		}
	}()

	manager, err := sessions.NewManager(sessions.Config{
		Pool:         pool,
		Store:        store,
		Audio:        audio.NewStore(dataDir),
		ExportDir:    dataDir,
		Seed:         random.FixedOrNew(cfg.Seed, nil),
		RequireAudio: cfg.RequireAudio,
	})
	if err != nil {
		return fmt.Errorf("init sessions: %w", err)
	}

	maxAudio := cfg.MaxAudioBytes
	if maxAudio <= 0 {
		maxAudio = trials.DefaultMaxAudioBytes
	}
	srv, err := server.NewServer(ctx, server.Config{
		HTTPAddr:        cfg.HTTPAddr,
		GRPCAddr:        cfg.GRPCAddr,
		Sessions:        manager,
		DefaultLanguage: lang,
		MaxAudioBytes:   maxAudio,
	})
	if err != nil {
		return fmt.Errorf("init encoding server: %w", err)
	}
	defer srv.Close()

	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve encoding: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, path string) (*sqlite.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open session sqlite store: %w", err)
	}
	return store, nil
}
