// Command remi-sim plays a full AI-vs-AI game of Remi and prints the
// result. Configuration comes from the environment (optionally a .env
// file): REMI_SEED, REMI_PLAYERS, REMI_DECKS, REMI_MAX_TURNS,
// REMI_LOG_LEVEL.
package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"remi/engine"
	"remi/engine/ai"
	"remi/internal/sim"
)

func main() {
	// A missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	log := logrus.New()
	if lvl, err := logrus.ParseLevel(envStr("REMI_LOG_LEVEL", "info")); err == nil {
		log.SetLevel(lvl)
	}

	cfg := engine.DefaultConfig()
	cfg.Seed = uint64(envInt("REMI_SEED", 0))
	cfg.NumPlayers = envInt("REMI_PLAYERS", cfg.NumPlayers)
	cfg.NumDecks = envInt("REMI_DECKS", cfg.NumDecks)
	cfg.MaxTurns = envInt("REMI_MAX_TURNS", 500)

	runner, err := sim.New(cfg, ai.DefaultPolicy(), log)
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	result, err := runner.Run()
	if err != nil {
		log.WithError(err).Fatal("game did not finish")
	}
	log.WithFields(logrus.Fields{
		"winner": result.Winner,
		"scores": result.Scores,
		"turns":  result.Turns,
	}).Info("game over")
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
