package integration

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/HartBrook/lexchunk/internal/config"
	"gopkg.in/yaml.v3"
)

// Fixture represents a test scenario loaded from YAML.
type Fixture struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Setup       FixtureSetup      `yaml:"setup"`
	Assertions  FixtureAssertions `yaml:"assertions"`
}

// FixtureSetup defines the source document and the law it is parsed under.
type FixtureSetup struct {
	Source string    `yaml:"source"`
	Law    *LawSetup `yaml:"law"`
}

// LawSetup overrides the configured law.
type LawSetup struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// FixtureAssertions defines what to verify. Unset fields are not checked.
type FixtureAssertions struct {
	ChunkCount    *int           `yaml:"chunk_count"`
	IDs           []string       `yaml:"ids"`
	Chunks        []ChunkCheck   `yaml:"chunks"`
	Discarded     *int           `yaml:"discarded"`
	EmptyArticles *int           `yaml:"empty_articles"`
	Statistics    map[string]int `yaml:"statistics"` // keyed by JSON field name
}

// ChunkCheck verifies the chunk at Index. Empty strings are not checked;
// Absent lists the levels (book, title, chapter, section) that must be null.
type ChunkCheck struct {
	Index         int      `yaml:"index"`
	ID            string   `yaml:"id"`
	Text          string   `yaml:"text"`
	Book          string   `yaml:"book"`
	Title         string   `yaml:"title"`
	Chapter       string   `yaml:"chapter"`
	Section       string   `yaml:"section"`
	Article       string   `yaml:"article"`
	BaseArticle   string   `yaml:"base_article"`
	IsSubArticle  *bool    `yaml:"is_sub_article"`
	Citation      string   `yaml:"citation"`
	HierarchyPath string   `yaml:"hierarchy_path"`
	Absent        []string `yaml:"absent"`
}

// LoadFixture loads a fixture from a YAML file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, err
	}

	if err := fixture.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fixture %s: %w", path, err)
	}

	return &fixture, nil
}

// Validate checks that the fixture has all required fields.
func (f *Fixture) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("missing required field: name")
	}
	if f.Setup.Law != nil && (f.Setup.Law.Code == "" || f.Setup.Law.Name == "") {
		return fmt.Errorf("setup.law needs both code and name")
	}
	for _, c := range f.Assertions.Chunks {
		for _, level := range c.Absent {
			switch level {
			case "book", "title", "chapter", "section":
			default:
				return fmt.Errorf("chunk %d: unknown level %q in absent", c.Index, level)
			}
		}
	}
	return nil
}

// LoadAllFixtures loads all fixtures from a directory.
func LoadAllFixtures(dir string) ([]*Fixture, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var fixtures []*Fixture
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) != ".yaml" && filepath.Ext(name) != ".yml" {
			continue
		}

		fixture, err := LoadFixture(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		fixtures = append(fixtures, fixture)
	}

	return fixtures, nil
}

// ToConfig converts the fixture setup to a config.Config.
func (s FixtureSetup) ToConfig() *config.Config {
	cfg := config.Default()
	if s.Law != nil {
		cfg.Law = config.LawConfig{Code: s.Law.Code, Name: s.Law.Name}
	}
	return cfg
}
