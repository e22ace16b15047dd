package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	genairesponder "github.com/bnema/persona-cli/internal/adapters/genai"
	statusadapter "github.com/bnema/persona-cli/internal/adapters/render/status"
	tomlrepo "github.com/bnema/persona-cli/internal/adapters/repo/toml"
	filestore "github.com/bnema/persona-cli/internal/adapters/store/file"
	tomlwallet "github.com/bnema/persona-cli/internal/adapters/wallet/toml"
	"github.com/bnema/persona-cli/internal/application"
	"github.com/bnema/persona-cli/internal/domain"
	"github.com/bnema/persona-cli/internal/ports"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultStoreQuota = 5 << 20 // 5 MiB, roughly a browser-storage quota

type tickConfig struct {
	RealStep    time.Duration
	VirtualStep time.Duration
}

type app struct {
	characters ports.CharacterRepository
	wallet     *tomlwallet.Ledger
	responder  ports.Responder

	snapshots *application.SnapshotService
	sim       *application.SimulationService
	chat      *application.ChatService

	profileRenderer   func(profile domain.DerivedProfile, opts statusadapter.RenderOptions) (string, error)
	coherenceRenderer func(report domain.CoherenceReport, opts statusadapter.RenderOptions) (string, error)

	tick   tickConfig
	logger *zap.Logger
	now    func() time.Time
}

func wireApp() (*app, error) {
	cfg := viper.New()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	dataDir := filepath.Join(homeDir, ".persona")
	cfg.SetDefault("data.dir", dataDir)
	cfg.SetDefault("store.quota_bytes", int64(defaultStoreQuota))
	cfg.SetDefault("wallet.path", filepath.Join(dataDir, "ledger.toml"))
	cfg.SetDefault("tick.real_ms", 300)
	cfg.SetDefault("tick.virtual_ms", 1000)
	cfg.SetDefault("log.level", "warn")

	characters, err := tomlrepo.NewRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire character repository: %w", err)
	}

	logger, err := newLogger(cfg.GetString("log.level"))
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	store := filestore.NewStore(filepath.Join(cfg.GetString("data.dir"), "sessions"), cfg.GetInt64("store.quota_bytes"))
	wallet := tomlwallet.NewLedger(cfg.GetString("wallet.path"))

	snapshots := application.NewSnapshotService(store, ports.SystemClock{}, logger)
	sim := application.NewSimulationService(wallet, snapshots, logger)

	// No API key means no responder; chat still runs the simulation and
	// reports that replies are unavailable.
	var responder ports.Responder
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		responder, err = genairesponder.NewResponder(context.Background(), apiKey, cfg.GetString("genai.model"))
		if err != nil {
			return nil, fmt.Errorf("wire genai responder: %w", err)
		}
	}

	chat := application.NewChatService(responder, snapshots, logger)

	return &app{
		characters:        characters,
		wallet:            wallet,
		responder:         responder,
		snapshots:         snapshots,
		sim:               sim,
		chat:              chat,
		profileRenderer:   statusadapter.RenderProfile,
		coherenceRenderer: statusadapter.RenderCoherence,
		tick: tickConfig{
			RealStep:    time.Duration(cfg.GetInt("tick.real_ms")) * time.Millisecond,
			VirtualStep: time.Duration(cfg.GetInt("tick.virtual_ms")) * time.Millisecond,
		},
		logger: logger,
		now:    time.Now,
	}, nil
}

func newLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		parsed = zapcore.WarnLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(parsed)
	config.OutputPaths = []string{"stderr"}

	return config.Build()
}
