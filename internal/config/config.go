// Package config provides environment-based configuration for go-pooja commands.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults for the assistant commands.
const (
	DefaultChatURL   = "http://localhost:8080/api/chat"
	DefaultRelayAddr = ":8080"
	DefaultVoiceRate = 1.0
)

// Config holds settings shared by the go-pooja binaries.
type Config struct {
	// OpenRouterKey is the server-side default API key (relay only).
	OpenRouterKey string

	// CustomKey is a caller-supplied key; empty means default-key mode.
	CustomKey string

	// ChatURL is the text-generation endpoint the assistant talks to.
	ChatURL string

	// RelayAddr is the listen address for the relay server.
	RelayAddr string

	// VoiceName selects the synthesizer voice ("" = platform default).
	VoiceName string

	// VoiceRate is the speech rate multiplier.
	VoiceRate float64

	// WhisperModel is the path to the whisper.cpp model file.
	WhisperModel string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from the given env file (if present) and the
// process environment. Missing values fall back to defaults.
func Load(envFile string) Config {
	// A missing .env file is fine; the environment may carry everything.
	_ = godotenv.Load(envFile)

	cfg := Config{
		OpenRouterKey: os.Getenv("OPENROUTER_API_KEY"),
		CustomKey:     os.Getenv("POOJA_CUSTOM_API_KEY"),
		ChatURL:       envOr("POOJA_CHAT_URL", DefaultChatURL),
		RelayAddr:     envOr("POOJA_RELAY_ADDR", DefaultRelayAddr),
		VoiceName:     os.Getenv("POOJA_VOICE"),
		VoiceRate:     envFloat("POOJA_VOICE_RATE", DefaultVoiceRate),
		WhisperModel:  envOr("WHISPER_MODEL", "models/ggml-base.en.bin"),
		LogLevel:      envOr("POOJA_LOG_LEVEL", "info"),
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
