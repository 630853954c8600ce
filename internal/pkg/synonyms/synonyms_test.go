package synonyms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	t.Run("lowercases and folds accents", func(t *testing.T) {
		tokens := Tokenize("Tramitação de Ofício")
		assert.Equal(t, []string{"tramitacao", "oficio"}, tokens)
	})

	t.Run("drops short tokens", func(t *testing.T) {
		tokens := Tokenize("o ar de um processo")
		assert.Equal(t, []string{"processo"}, tokens)
	})

	t.Run("splits on punctuation", func(t *testing.T) {
		tokens := Tokenize("processo/expediente, protocolo!")
		assert.Equal(t, []string{"processo", "expediente", "protocolo"}, tokens)
	})

	t.Run("empty query", func(t *testing.T) {
		assert.Nil(t, Tokenize(""))
		assert.Nil(t, Tokenize("   "))
	})
}

func TestExpand(t *testing.T) {
	expander := NewExpander(Table{
		"tramitar": {"enviar", "encaminhar"},
		"processo": {"expediente"},
	})

	t.Run("original terms come first in order", func(t *testing.T) {
		terms := expander.Expand("tramitar processo")
		require.GreaterOrEqual(t, len(terms), 2)
		assert.Equal(t, "tramitar", terms[0])
		assert.Equal(t, "processo", terms[1])
	})

	t.Run("synonyms are appended sorted", func(t *testing.T) {
		terms := expander.Expand("tramitar processo")
		assert.Equal(t, []string{"tramitar", "processo", "encaminhar", "enviar", "expediente"}, terms)
	})

	t.Run("expansion is idempotent", func(t *testing.T) {
		once := expander.Expand("tramitar processo")
		twice := expander.Expand(strings.Join(once, " "))
		assert.Equal(t, once, twice)
	})

	t.Run("unknown terms pass through unchanged", func(t *testing.T) {
		terms := expander.Expand("licitacao")
		assert.Equal(t, []string{"licitacao"}, terms)
	})

	t.Run("duplicate query terms collapse", func(t *testing.T) {
		terms := expander.Expand("processo processo")
		assert.Equal(t, []string{"processo", "expediente"}, terms)
	})

	t.Run("empty query expands to nothing", func(t *testing.T) {
		assert.Nil(t, expander.Expand(""))
	})

	t.Run("nil table falls back to defaults", func(t *testing.T) {
		def := NewExpander(nil)
		terms := def.Expand("tramitar")
		assert.Contains(t, terms, "encaminhar")
	})
}

func TestExpandClosure(t *testing.T) {
	// A synonym that is itself a table key keeps expanding until the set
	// is stable.
	expander := NewExpander(Table{
		"processo":   {"expediente"},
		"expediente": {"autos"},
	})
	terms := expander.Expand("processo")
	assert.Equal(t, []string{"processo", "autos", "expediente"}, terms)
}
