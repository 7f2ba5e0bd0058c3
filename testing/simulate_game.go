package main

import (
	"context"
	"fmt"
	"log"

	"github.com/frozen4917/What-Comes-At-Night/internal/app"
	"github.com/frozen4917/What-Comes-At-Night/internal/autoplay"
	"github.com/frozen4917/What-Comes-At-Night/internal/config"
	"github.com/frozen4917/What-Comes-At-Night/internal/engine"
	"github.com/frozen4917/What-Comes-At-Night/internal/logging"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger, err := logging.NewConsole(false)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	game, err := app.Build(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to set up game: %v", err)
	}
	eng, renderer, seed := game.Engine, game.Renderer, game.Seed

	// The player is an LLM when a key is configured, a coin flip otherwise.
	var player autoplay.Chooser = autoplay.NewRandomChooser(seed)
	if cfg.RequireAPIKey() == nil {
		gemini, err := autoplay.NewGeminiChooser(ctx, cfg.GeminiAPIKey, renderer, logger.Named("player"))
		if err != nil {
			log.Fatalf("Failed to create player client: %v", err)
		}
		defer gemini.Close()
		player = gemini
	}
	logger.Info("simulation start", zap.Uint64("seed", seed), zap.Int("max_turns", cfg.MaxTurns))

	state, err := eng.NewGame()
	if err != nil {
		log.Fatalf("Failed to start game: %v", err)
	}

	for turn := 1; turn <= cfg.MaxTurns; turn++ {
		fmt.Printf("--- Turn %d (%s, %d left) ---\n", turn, state.World.CurrentPhaseID, state.World.ActionsRemaining)
		narration := renderer.BuildPrompt(state)
		fmt.Println(narration)
		if o, ok := player.(autoplay.Observer); ok {
			o.Observe(narration)
		}

		actions := eng.AvailableActions(state)
		choice, err := player.Choose(ctx, state, actions)
		if err != nil {
			fmt.Printf("Error choosing action: %v\n", err)
			break
		}
		action := actions[choice]
		fmt.Printf("\nPlayer Action: %s\n", renderer.Text(action.TextRef))

		res := eng.Turn(state, action)
		fmt.Printf("Stats: Health=%d, Stamina=%d, Noise=%d, Monsters=%d\n\n",
			state.Player.Health, state.Player.Stamina, state.World.Noise, state.Horde.Total())

		if res.Over {
			fmt.Println(renderer.EndGameText(state, res.Outcome))
			if res.Outcome == engine.OutcomeWin {
				fmt.Println("Game Ended: Player Won!")
			} else {
				fmt.Println("Game Ended: Player Lost!")
			}
			return
		}
	}
	fmt.Println("Game Ended: turn limit reached.")
}
