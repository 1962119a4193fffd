package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultMatchers(t *testing.T) {
	tests := []struct {
		name         string
		line         string
		wantOK       bool
		wantLevel    Level
		wantNumeral  string
		wantFragment string
	}{
		{"book ordinal", "LIVRE PREMIER", true, LevelBook, "PREMIER", ""},
		{"book ordinal with title", "LIVRE DEUXIEME : Relations collectives", true, LevelBook, "DEUXIEME", "Relations collectives"},
		{"book accented ordinal", "Livre troisième. Sécurité", true, LevelBook, "troisième", "Sécurité"},
		{"book roman", "LIVRE IV", true, LevelBook, "IV", ""},
		{"title roman", "Titre I", true, LevelTitle, "I", ""},
		{"title with inline title", "TITRE II. Du contrat de travail", true, LevelTitle, "II", "Du contrat de travail"},
		{"title word", "Titre préliminaire", true, LevelTitle, "préliminaire", ""},
		{"chapter", "Chapitre III - Durée du travail", true, LevelChapter, "III", "Durée du travail"},
		{"chapter lowercase", "chapitre v", true, LevelChapter, "v", ""},
		{"section digits", "Section 2: Repos", true, LevelSection, "2", "Repos"},
		{"section roman", "Section IV", true, LevelSection, "IV", ""},
		{"section word is not a numeral", "Section civile", false, 0, "", ""},
		{"article abbreviated", "Art. 1 Le présent code.", true, LevelArticle, "1", "Le présent code."},
		{"article no space", "Art.12 Texte", true, LevelArticle, "12", "Texte"},
		{"article full keyword", "Article 5-2 : Texte", true, LevelArticle, "5-2", "Texte"},
		{"article uppercase", "ART. 40", true, LevelArticle, "40", ""},
		{"article ordinal suffix", "Art. 1er. Dispositions", true, LevelArticle, "1", "Dispositions"},
		{"article trailing hyphen", "Art. 5-", true, LevelArticle, "5", ""},
		{"article letter suffix", "Art. 12bis Disposition ajoutée.", true, LevelArticle, "12", "bis Disposition ajoutée."},
		{"article feminine ordinal", "Article 1re Texte", true, LevelArticle, "1", "Texte"},
		{"section ordinal", "Section 1ère - Du contrat", true, LevelSection, "1", "Du contrat"},
		{"section digits glued to text", "Section 3bis", true, LevelSection, "3", "bis"},
		{"section roman glued to text", "Section IVe", false, 0, "", ""},
		{"plural articles", "Articles 3 et 4", false, 0, "", ""},
		{"plain body", "Le salarié a droit au repos.", false, 0, "", ""},
	}

	matchers := DefaultMatchers()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := matchLine(matchers, tt.line)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantLevel, m.Level)
			assert.Equal(t, tt.wantNumeral, m.Numeral)
			assert.Equal(t, tt.wantFragment, m.Fragment)
		})
	}
}

func TestDefaultMatchers_PriorityOrder(t *testing.T) {
	matchers := DefaultMatchers()

	want := []Level{LevelBook, LevelTitle, LevelChapter, LevelSection, LevelArticle}
	got := make([]Level, len(matchers))
	for i, m := range matchers {
		got[i] = m.Level
	}
	assert.Equal(t, want, got)
}

func TestLevel(t *testing.T) {
	assert.Equal(t, "Livre", LevelBook.Keyword())
	assert.Equal(t, "Article", LevelArticle.Keyword())
	assert.Equal(t, "chapter", LevelChapter.String())
	assert.Equal(t, "unknown", Level(42).String())
}

func TestNewHeading(t *testing.T) {
	h := newHeading(LevelTitle, "I", "Champ d'application")
	assert.Equal(t, "Titre I. Champ d'application", h.Label)
	assert.Equal(t, "Titre I", h.PathSegment())

	bare := newHeading(LevelSection, "2", "")
	assert.Equal(t, "Section 2", bare.Label)
}
