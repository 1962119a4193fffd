package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HartBrook/lexchunk/internal/cache"
	"github.com/HartBrook/lexchunk/internal/config"
	"github.com/HartBrook/lexchunk/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCode = `LIVRE PREMIER
Titre premier
Dispositions générales
Chapitre I. Champ d'application
Art. 1 Le présent code s'applique.
Art. 2 Il est interdit.
Art. 2-1 Sauf exception.`

type testEnv struct {
	configPath string
	storeDir   string
	srcDir     string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	return &testEnv{
		configPath: filepath.Join(dir, "config", "config.yaml"),
		storeDir:   filepath.Join(dir, "store"),
		srcDir:     filepath.Join(dir, "src"),
	}
}

func (e *testEnv) writeSource(t *testing.T, name, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(e.srcDir, 0755))
	path := filepath.Join(e.srcDir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", e.configPath, "--store", e.storeDir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestParse_Store(t *testing.T) {
	env := newTestEnv(t)
	src := env.writeSource(t, "code.txt", sampleCode)

	out, err := env.run(t, "parse", src)
	require.NoError(t, err)
	assert.Contains(t, out, "code: 3 chunks")
	assert.Contains(t, out, "Total Chunks: 3")
	assert.Contains(t, out, "Sub Articles: 1")
	assert.Contains(t, out, "Books: 1")

	chunks, meta, err := cache.New(env.storeDir).Read("code")
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, "Livre PREMIER > Titre premier > Chapitre I > Article 2-1", chunks[2].Metadata.HierarchyPath)
	assert.Equal(t, src, meta.Source)

	t.Run("unchanged source is skipped", func(t *testing.T) {
		out, err := env.run(t, "parse", src)
		require.NoError(t, err)
		assert.Contains(t, out, "code: unchanged, 3 chunks")
		assert.NotContains(t, out, "Total Chunks")
	})

	t.Run("force re-parses", func(t *testing.T) {
		out, err := env.run(t, "parse", "--force", src)
		require.NoError(t, err)
		assert.Contains(t, out, "code: 3 chunks")
	})
}

func TestParse_Output(t *testing.T) {
	env := newTestEnv(t)
	src := env.writeSource(t, "code.txt", sampleCode)
	output := filepath.Join(t.TempDir(), "chunks.json")

	out, err := env.run(t, "parse", src, "-o", output)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 3 chunks to "+output)

	chunks, err := cache.LoadFile(output)
	require.NoError(t, err)
	assert.Len(t, chunks, 3)

	_, err = os.Stat(env.storeDir)
	assert.True(t, os.IsNotExist(err), "--output must not touch the store")

	t.Run("stdout", func(t *testing.T) {
		out, err := env.run(t, "parse", src, "-o", "-")
		require.NoError(t, err)
		chunks, err := cache.Decode(strings.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, "CT_TN_A1", chunks[0].ID)
	})

	t.Run("rejects several inputs", func(t *testing.T) {
		other := env.writeSource(t, "annexe.txt", "Art. 9 Annexe.")
		_, err := env.run(t, "parse", src, other, "-o", output)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one document")
	})
}

func TestParse_LawFlags(t *testing.T) {
	env := newTestEnv(t)
	src := env.writeSource(t, "code.txt", "Art. 3 Texte.")

	_, err := env.run(t, "parse", src, "--law-code", "CT_FR_", "--law-name", "Code du travail")
	require.NoError(t, err)

	chunks, _, err := cache.New(env.storeDir).Read("code")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "CT_FR_3", chunks[0].ID)
	assert.Equal(t, "Code du travail, art. 3", chunks[0].Metadata.Citation)
}

func TestParse_MetricsTextfile(t *testing.T) {
	env := newTestEnv(t)
	src := env.writeSource(t, "code.txt", sampleCode)
	textfile := filepath.Join(t.TempDir(), "lexchunk.prom")

	_, err := env.run(t, "parse", src, "--metrics-textfile", textfile)
	require.NoError(t, err)

	data, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "lexchunk_documents_parsed_total 1")
}

func TestParse_MissingInput(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "parse", filepath.Join(env.srcDir, "absent.txt"))
	require.Error(t, err)

	var buf bytes.Buffer
	printError(&buf, err)
	assert.Contains(t, buf.String(), "absent.txt")
	assert.Contains(t, buf.String(), "plain-text document")
}

func TestStatsAndShow(t *testing.T) {
	env := newTestEnv(t)
	src := env.writeSource(t, "code.txt", sampleCode)
	_, err := env.run(t, "parse", src)
	require.NoError(t, err)

	t.Run("stats", func(t *testing.T) {
		out, err := env.run(t, "stats", "code")
		require.NoError(t, err)
		assert.Contains(t, out, "Base Articles: 2")
		assert.Contains(t, out, "Chapters: 1")
	})

	t.Run("stats json", func(t *testing.T) {
		out, err := env.run(t, "stats", "code", "--json")
		require.NoError(t, err)
		assert.Contains(t, out, `"total_articles": 3`)
	})

	t.Run("stats of unknown document", func(t *testing.T) {
		_, err := env.run(t, "stats", "absent")
		require.Error(t, err)
		var buf bytes.Buffer
		printError(&buf, err)
		assert.Contains(t, buf.String(), "lexchunk parse")
	})

	t.Run("show ids", func(t *testing.T) {
		out, err := env.run(t, "show", "code", "CT_TN_A2_1")
		require.NoError(t, err)
		assert.Contains(t, out, "CT_TN_A2_1")
		assert.Contains(t, out, "Code du travail tunisien, art. 2-1")
		assert.Contains(t, out, "Sauf exception.")
		assert.NotContains(t, out, "Il est interdit.")
	})

	t.Run("show all json", func(t *testing.T) {
		out, err := env.run(t, "show", "code", "--all", "--json")
		require.NoError(t, err)
		chunks, err := cache.Decode(strings.NewReader(out))
		require.NoError(t, err)
		assert.Len(t, chunks, 3)
	})

	t.Run("show from json file", func(t *testing.T) {
		out, err := env.run(t, "show", cache.New(env.storeDir).ChunkFile("code"), "CT_TN_A1")
		require.NoError(t, err)
		assert.Contains(t, out, "Le présent code s'applique.")
	})

	t.Run("show unknown id", func(t *testing.T) {
		_, err := env.run(t, "show", "code", "CT_TN_A99")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CT_TN_A99")
	})

	t.Run("show requires ids or all", func(t *testing.T) {
		_, err := env.run(t, "show", "code")
		require.Error(t, err)
	})
}

func TestListAndClear(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No documents stored")

	a := env.writeSource(t, "code.txt", sampleCode)
	b := env.writeSource(t, "annexe.txt", "Art. 9 Annexe.")
	_, err = env.run(t, "parse", filepath.Join(env.srcDir, "*.txt"))
	require.NoError(t, err)

	out, err = env.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "annexe  1 chunks")
	assert.Contains(t, out, "code  3 chunks")
	assert.Contains(t, out, a)
	assert.Contains(t, out, b)

	_, err = env.run(t, "clear", "annexe")
	require.NoError(t, err)
	store := cache.New(env.storeDir)
	assert.False(t, store.Exists("annexe"))
	assert.True(t, store.Exists("code"))

	_, err = env.run(t, "clear")
	require.Error(t, err, "clear needs documents or --all")

	_, err = env.run(t, "clear", "--all")
	require.NoError(t, err)
	names, err := store.ListCached()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestInit(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Config saved to "+env.configPath)

	cfg, err := config.LoadFrom(env.configPath)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultWorkers, cfg.Batch.Workers)

	require.NoError(t, os.WriteFile(env.configPath, []byte("law:\n  code: X_\n  name: X\n"), 0644))

	out, err = env.run(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
	cfg, err = config.LoadFrom(env.configPath)
	require.NoError(t, err)
	assert.Equal(t, "X_", cfg.Law.Code)

	_, err = env.run(t, "init", "--force")
	require.NoError(t, err)
	cfg, err = config.LoadFrom(env.configPath)
	require.NoError(t, err)
	assert.Equal(t, "CT_TN_A", cfg.Law.Code)
}

func TestConfigLaw(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(env.configPath), 0755))
	require.NoError(t, os.WriteFile(env.configPath, []byte("law:\n  code: CT_MA_\n  name: Code du travail marocain\n"), 0644))
	src := env.writeSource(t, "code.txt", "Art. 5 Texte.")

	_, err := env.run(t, "parse", src)
	require.NoError(t, err)

	chunks, _, err := cache.New(env.storeDir).Read("code")
	require.NoError(t, err)
	assert.Equal(t, "CT_MA_5", chunks[0].ID)
	assert.Equal(t, "Code du travail marocain", chunks[0].Metadata.Law)
}

func TestConfigInvalid(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(env.configPath), 0755))
	require.NoError(t, os.WriteFile(env.configPath, []byte("batch:\n  workers: -1\n"), 0644))

	_, err := env.run(t, "list")
	require.Error(t, err)
	var le *errors.LexchunkError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, errors.ErrConfigInvalid, le.Code)
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "lexchunk dev\n", out)
}

func TestSourcePatterns(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "code.txt")

	got := sourcePatterns([]string{dir, file, "data/*.txt"}, []string{".txt", ".md"})
	assert.Equal(t, []string{
		filepath.Join(dir, "**", "*.txt"),
		filepath.Join(dir, "**", "*.md"),
		file,
		"data/*.txt",
	}, got)
}

func TestWatchTargets(t *testing.T) {
	dir := t.TempDir()
	sources := filepath.Join(dir, "sources")
	require.NoError(t, os.MkdirAll(sources, 0755))

	inside := filepath.Join(sources, "annexe.txt")
	sibling := filepath.Join(dir, "sources-old", "code.txt")
	outside := filepath.Join(dir, "code.txt")

	got := watchTargets([]string{sources, outside}, []string{inside, sibling, outside})
	assert.Equal(t, []string{sources, sibling, outside}, got)
}
