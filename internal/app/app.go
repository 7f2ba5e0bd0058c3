// Package app wires configuration into the game's components.
package app

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/frozen4917/What-Comes-At-Night/internal/config"
	"github.com/frozen4917/What-Comes-At-Night/internal/engine"
	"github.com/frozen4917/What-Comes-At-Night/internal/narrative"
	"github.com/frozen4917/What-Comes-At-Night/internal/ruleset"
	"github.com/frozen4917/What-Comes-At-Night/internal/storage"
	"go.uber.org/zap"
)

// Game bundles the components a front end needs.
type Game struct {
	Rules    *ruleset.Ruleset
	Engine   *engine.Engine
	Renderer *narrative.Renderer
	Store    storage.Store
	Seed     uint64
}

// Setup builds the game and opens the configured save store.
func Setup(cfg *config.Config, logger *zap.Logger) (*Game, error) {
	game, err := Build(cfg, logger)
	if err != nil {
		return nil, err
	}
	store, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}
	game.Store = store
	return game, nil
}

// Build loads the ruleset and builds the engine and renderer from one seed.
// The returned game has no store.
func Build(cfg *config.Config, logger *zap.Logger) (*Game, error) {
	rules, err := LoadRules(cfg.RulesetPath)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	logger.Info("game setup", zap.Uint64("seed", seed), zap.String("store", cfg.Store))

	return &Game{
		Rules:  rules,
		Engine: engine.New(rules, engine.WithSeed(seed), engine.WithLogger(logger.Named("engine"))),
		Renderer: narrative.New(rules,
			narrative.WithRand(rand.New(rand.NewPCG(seed, ^seed))),
			narrative.WithLogger(logger.Named("narrative"))),
		Seed: seed,
	}, nil
}

// LoadRules returns the embedded ruleset, or the one at path if set.
func LoadRules(path string) (*ruleset.Ruleset, error) {
	if path == "" {
		rules, err := ruleset.Default()
		if err != nil {
			return nil, fmt.Errorf("load default ruleset: %w", err)
		}
		return rules, nil
	}
	rules, err := ruleset.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load ruleset %s: %w", path, err)
	}
	return rules, nil
}

// OpenStore opens the save backend named by cfg.Store.
func OpenStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		return storage.OpenSQLite(cfg.DBPath)
	case config.StoreFile:
		return storage.NewFileStore(cfg.SaveDir), nil
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}
