package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_MatchesSpecDefaults(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 0.70, cfg.SimilarityThreshold)
	assert.Equal(t, 5, cfg.KGramSize)
	assert.Equal(t, 2, cfg.MinClusterSize)
	assert.Equal(t, 2, cfg.MaxRepresentatives)
	assert.Equal(t, 4, cfg.BPTreeOrder)
}

func TestValidate_RejectsOutOfRangeThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SimilarityThreshold = 1.5

	require.Error(t, cfg.Validate(), "expected an error for an out-of-range similarity threshold")
}

func TestClamp_BringsValuesIntoRange(t *testing.T) {
	cfg := &Config{SimilarityThreshold: -1, KGramSize: 0, MinClusterSize: 0, MaxRepresentatives: 0, BPTreeOrder: 1}
	cfg.Clamp()

	assert.Equal(t, 0.0, cfg.SimilarityThreshold)
	assert.Equal(t, 1, cfg.KGramSize)
	assert.Equal(t, 3, cfg.BPTreeOrder)
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "platok.toml")
	content := "similarity_threshold = 0.85\nkgram_size = 8\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.85, cfg.SimilarityThreshold)
	assert.Equal(t, 8, cfg.KGramSize)
	// Fields absent from the file keep their defaults.
	assert.Equal(t, 2, cfg.MinClusterSize, "fields absent from the file should keep their defaults")
}

func TestLoadOrDefault_NoConfigFile(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(cwd) }()
	require.NoError(t, os.Chdir(dir))

	cfg, err := LoadOrDefault()
	require.NoError(t, err)
	assert.Equal(t, 0.70, cfg.SimilarityThreshold)
}
