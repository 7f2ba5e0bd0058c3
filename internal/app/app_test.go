package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/frozen4917/What-Comes-At-Night/internal/config"
	"github.com/frozen4917/What-Comes-At-Night/internal/storage"
	"go.uber.org/zap"
)

func TestSetup(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Store:   config.StoreSQLite,
		DBPath:  filepath.Join(dir, "nested", "saves.db"),
		Seed:    11,
		SaveDir: dir,
	}
	game, err := Setup(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer game.Store.Close()

	if _, ok := game.Store.(*storage.SQLiteStore); !ok {
		t.Errorf("Expected a SQLite store, got %T", game.Store)
	}
	if game.Seed != 11 {
		t.Errorf("Expected the configured seed, got %d", game.Seed)
	}
	s, err := game.Engine.NewGame()
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	if err := game.Store.Save(context.Background(), "current", s); err != nil {
		t.Errorf("Save failed: %v", err)
	}
}

func TestLoadRulesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("phases: [\n"), 0644); err != nil {
		t.Fatalf("Failed to write ruleset: %v", err)
	}
	if _, err := LoadRules(path); err == nil {
		t.Errorf("Expected a malformed ruleset to fail")
	}
	if _, err := LoadRules(""); err != nil {
		t.Errorf("Expected the embedded ruleset to load, got %v", err)
	}
}

func TestOpenStoreUnknown(t *testing.T) {
	if _, err := OpenStore(&config.Config{Store: "redis"}); err == nil {
		t.Errorf("Expected an unknown store to fail")
	}
}

func TestBuildHasNoStore(t *testing.T) {
	game, err := Build(&config.Config{Seed: 3}, zap.NewNop())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if game.Store != nil {
		t.Errorf("Expected no store, got %T", game.Store)
	}
	if game.Engine == nil || game.Renderer == nil || game.Seed != 3 {
		t.Errorf("Unexpected game %+v", game)
	}
}
