package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	LLMProvider    string // anthropic, openai, ollama
	AnthropicKey   string // API key (X-Api-Key header)
	AnthropicToken string // OAuth token (Authorization: Bearer header)
	OpenAIKey      string
	LLMModel       string
	OllamaBaseURL  string
	DiscordToken   string
	DatabasePath   string
	Timezone       string // fixed zone anchoring all day boundaries
	PlanHour       int    // daily plan generation hour, in Timezone
	ReminderHours  []int  // reminder hours, in Timezone
	SendDelay      time.Duration
}

func Load() *Config {
	_ = godotenv.Load() // ignore error if no .env

	return &Config{
		LLMProvider:    envOr("LLM_PROVIDER", "anthropic"),
		AnthropicKey:   os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicToken: os.Getenv("ANTHROPIC_AUTH_TOKEN"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		LLMModel:       os.Getenv("LLM_MODEL"),
		OllamaBaseURL:  envOr("OLLAMA_BASE_URL", "http://localhost:11434/v1"),
		DiscordToken:   os.Getenv("DISCORD_BOT_TOKEN"),
		DatabasePath:   envOr("DATABASE_PATH", "./data.db"),
		Timezone:       envOr("TIMEZONE", "Europe/London"),
		PlanHour:       envInt("PLAN_HOUR", 8),
		ReminderHours:  envHours("REMINDER_HOURS", []int{10, 13, 16, 19, 22}),
		SendDelay:      envDuration("SEND_DELAY", 2*time.Second),
	}
}

// Location resolves the configured timezone, falling back to UTC so a bad
// TIMEZONE value degrades to a running bot instead of a crash loop.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("invalid TIMEZONE %q, falling back to UTC: %v", c.Timezone, err)
		return time.UTC
	}
	return loc
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envHours(key string, fallback []int) []int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var hours []int
	for _, part := range strings.Split(v, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 23 {
			return fallback
		}
		hours = append(hours, n)
	}
	return hours
}
