package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nickmtn/planbot/config"
	"github.com/nickmtn/planbot/internal/db"
	"github.com/nickmtn/planbot/internal/discord"
	"github.com/nickmtn/planbot/internal/llm"
	"github.com/nickmtn/planbot/internal/plan"
	"github.com/nickmtn/planbot/internal/scheduler"
)

func main() {
	cfg := config.Load()

	if cfg.DiscordToken == "" {
		log.Fatal("DISCORD_BOT_TOKEN is required")
	}

	database, err := db.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	apiKey := cfg.AnthropicKey
	if cfg.LLMProvider == "openai" {
		apiKey = cfg.OpenAIKey
	}

	client, err := llm.NewClient(llm.ProviderConfig{
		Provider:  cfg.LLMProvider,
		APIKey:    apiKey,
		AuthToken: cfg.AnthropicToken,
		Model:     cfg.LLMModel,
		BaseURL:   cfg.OllamaBaseURL,
	})
	if err != nil {
		log.Fatalf("failed to create LLM client: %v", err)
	}

	planner := plan.New(database, client, cfg.Location())

	bot, err := discord.NewBot(cfg.DiscordToken, database, planner)
	if err != nil {
		log.Fatalf("failed to start Discord bot: %v", err)
	}
	defer bot.Close()

	sched := scheduler.New(database, planner, bot, cfg.Location(), cfg.PlanHour, cfg.ReminderHours, cfg.SendDelay)
	sched.Start()
	defer sched.Stop()

	log.Println("bot is running. Press Ctrl+C to exit.")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down.")
}
