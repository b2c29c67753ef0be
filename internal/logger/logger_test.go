package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "relay.log")

	l, err := New("debug", path)
	require.NoError(t, err)

	l.Component("dispatcher").Info().Str("stage", "acknowledgment").Msg("письмо отправлено")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"dispatcher"`)
	assert.Contains(t, string(data), `"stage":"acknowledgment"`)
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.log")

	l, err := New("chatty", path)
	require.NoError(t, err)

	l.Debug().Msg("скрыто")
	l.Info().Msg("видно")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "скрыто")
	assert.Contains(t, string(data), "видно")
}

func TestClose_WithoutFile(t *testing.T) {
	assert.NoError(t, Nop().Close())

	l, err := New("info", "")
	require.NoError(t, err)
	assert.NoError(t, l.Close())
	assert.NoError(t, l.Component("http").Close())
}
