package sim

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remi/engine"
	"remi/engine/ai"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRunnerPlaysGameToCompletion(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.Seed = 42
	cfg.MaxTurns = 400

	r, err := New(cfg, ai.DefaultPolicy(), quietLogger())
	require.NoError(t, err)

	res, err := r.Run()
	require.NoError(t, err)
	assert.Len(t, res.Scores, cfg.NumPlayers)
	assert.Greater(t, res.Turns, 1)
	assert.GreaterOrEqual(t, res.Winner, -1)
	assert.Less(t, res.Winner, cfg.NumPlayers)
	if res.Winner >= 0 {
		assert.Zero(t, res.Scores[res.Winner])
	}
}

func TestRunnerRejectsBadConfig(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.NumPlayers = 1
	_, err := New(cfg, ai.DefaultPolicy(), quietLogger())
	assert.Error(t, err)
}

func TestRunnerDeterministicForSeed(t *testing.T) {
	run := func() Result {
		cfg := engine.DefaultConfig()
		cfg.Seed = 9001
		cfg.MaxTurns = 400
		r, err := New(cfg, ai.DefaultPolicy(), quietLogger())
		require.NoError(t, err)
		res, err := r.Run()
		require.NoError(t, err)
		return res
	}
	assert.Equal(t, run(), run())
}

func TestFourPlayerGame(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.NumPlayers = 4
	cfg.NumDecks = 3
	cfg.Seed = 5
	cfg.MaxTurns = 600

	r, err := New(cfg, ai.DefaultPolicy(), quietLogger())
	require.NoError(t, err)
	res, err := r.Run()
	require.NoError(t, err)
	assert.Len(t, res.Scores, 4)
}
