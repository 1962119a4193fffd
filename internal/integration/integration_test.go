package integration

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/HartBrook/lexchunk/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getTestdataDir returns the path to the testdata directory.
func getTestdataDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "testdata", "fixtures")
}

// TestIntegration_Fixtures runs all fixture-based integration tests.
func TestIntegration_Fixtures(t *testing.T) {
	fixtures, err := LoadAllFixtures(getTestdataDir())
	require.NoError(t, err, "failed to load fixtures")
	require.NotEmpty(t, fixtures)

	for _, fixture := range fixtures {
		t.Run(fixture.Name, func(t *testing.T) {
			t.Parallel()
			runFixture(t, fixture)
		})
	}
}

// runFixture executes a single fixture test.
func runFixture(t *testing.T, fixture *Fixture) {
	t.Helper()

	env := NewTestEnv(t)

	require.NoError(t, env.SetupConfig(fixture.Setup.ToConfig()), "failed to write config")
	cfg, err := env.LoadConfig()
	require.NoError(t, err, "failed to load config")

	src := env.WriteSource("source.txt", fixture.Setup.Source)

	outcomes, err := env.RunParse(cfg, false, src)
	require.NoError(t, err, "RunParse failed")
	require.Len(t, outcomes, 1)
	require.NotNil(t, outcomes[0].Result)

	chunks, err := env.ReadChunks("source")
	require.NoError(t, err, "failed to read stored chunks")

	NewAsserter(t, chunks, outcomes[0].Result).RunAssertions(fixture.Assertions)
}

// TestIntegration_ReparseAfterEdit checks that an edited source replaces
// its stored chunks while an untouched one is skipped.
func TestIntegration_ReparseAfterEdit(t *testing.T) {
	env := NewTestEnv(t)
	cfg, err := env.LoadConfig()
	require.NoError(t, err)

	code := env.WriteSource("code.txt", "Art. 1 Avant.")
	annexe := env.WriteSource("annexe.txt", "Art. 50 Annexe.")

	_, err = env.RunParse(cfg, false, code, annexe)
	require.NoError(t, err)

	env.WriteSource("code.txt", "Art. 1 Après.\nArt. 2 Nouveau.")

	outcomes, err := env.RunParse(cfg, false, code, annexe)
	require.NoError(t, err)
	assert.False(t, outcomes[0].Skipped)
	assert.True(t, outcomes[1].Skipped)

	chunks, err := env.ReadChunks("code")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "Après.", chunks[0].Text)

	names, err := env.Store().ListCached()
	require.NoError(t, err)
	assert.Equal(t, []string{"annexe", "code"}, names)
}

// TestIntegration_EnvOverride checks that LEXCHUNK_* variables take
// precedence over the config file.
func TestIntegration_EnvOverride(t *testing.T) {
	env := NewTestEnv(t)
	require.NoError(t, env.SetupConfig(config.Default()))

	t.Setenv("LEXCHUNK_LAW_CODE", "CT_DZ_")
	t.Setenv("LEXCHUNK_LAW_NAME", "Code du travail algérien")

	cfg, err := env.LoadConfig()
	require.NoError(t, err)

	src := env.WriteSource("code.txt", "Art. 7 Texte.")
	_, err = env.RunParse(cfg, false, src)
	require.NoError(t, err)

	chunks, err := env.ReadChunks("code")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "CT_DZ_7", chunks[0].ID)
	assert.Equal(t, "Code du travail algérien, art. 7", chunks[0].Metadata.Citation)
}

// TestIntegration_CorruptStore checks that a tampered chunk file is rejected
// on read rather than returned.
func TestIntegration_CorruptStore(t *testing.T) {
	env := NewTestEnv(t)
	cfg, err := env.LoadConfig()
	require.NoError(t, err)

	src := env.WriteSource("code.txt", "Art. 1 Texte.")
	_, err = env.RunParse(cfg, false, src)
	require.NoError(t, err)

	path := env.Store().ChunkFile("code")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id": "x"}]`), 0644))

	_, err = env.ReadChunks("code")
	require.Error(t, err)

	// --force rewrites the entry even though the source is unchanged.
	_, err = env.RunParse(cfg, true, src)
	require.NoError(t, err)
	chunks, err := env.ReadChunks("code")
	require.NoError(t, err)
	assert.Len(t, chunks, 1)
}
