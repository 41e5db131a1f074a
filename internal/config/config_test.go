package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, "ai_chunks", cfg.VectorTable)
	require.Equal(t, 768, cfg.EmbedDim)
	require.Equal(t, 4, cfg.TopK)
	require.Equal(t, ":8000", cfg.ListenAddr)
}

func TestLoadYamlFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("vector_table: kitchen_chunks\ntop_k: 7\ndb_debug: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "kitchen_chunks", cfg.VectorTable)
	require.Equal(t, 7, cfg.TopK)
	require.True(t, cfg.DBDebug)
	require.Equal(t, 768, cfg.EmbedDim, "unset keys keep defaults")
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("top_k: 7\n"), 0o644))
	t.Setenv("AI_TOP_K", "9")
	t.Setenv("AI_OPENAI_API_KEY", "sk-test")
	t.Setenv("AI_EMBED_DIM", "not-a-number")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9, cfg.TopK)
	require.Equal(t, "sk-test", cfg.OpenAIKey)
	require.Equal(t, 768, cfg.EmbedDim, "unparseable env values are ignored")
}

func TestLoadInvalidYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("top_k: [broken"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}
