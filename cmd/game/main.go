package main

import (
	"fmt"
	"os"

	"github.com/frozen4917/What-Comes-At-Night/internal/app"
	"github.com/frozen4917/What-Comes-At-Night/internal/config"
	"github.com/frozen4917/What-Comes-At-Night/internal/logging"
	"github.com/frozen4917/What-Comes-At-Night/internal/tui"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewFile(cfg.LogFile, zapcore.InfoLevel)
	if err != nil {
		fmt.Printf("Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	game, err := app.Setup(cfg, logger)
	if err != nil {
		fmt.Printf("Error setting up the game: %v\n", err)
		os.Exit(1)
	}
	defer game.Store.Close()

	if err := tui.Run(tui.Deps{
		Engine:   game.Engine,
		Renderer: game.Renderer,
		Store:    game.Store,
		Slot:     cfg.SaveSlot,
		Logger:   logger,
	}); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
