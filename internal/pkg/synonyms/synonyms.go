package synonyms

import (
	"sort"
	"strings"
	"unicode"
)

// Table maps a canonical domain term to its synonyms. Expansion is purely
// additive: original query terms are always retained.
type Table map[string][]string

// DefaultTable covers the administrative/legal vocabulary the assistant is
// scoped to. Loaded table entries from config are merged over these.
func DefaultTable() Table {
	return Table{
		"tramitar":   {"enviar", "encaminhar", "remeter", "despachar", "expedir"},
		"processo":   {"procedimento", "expediente", "autos", "protocolo"},
		"criar":      {"abrir", "iniciar", "cadastrar", "gerar", "instaurar"},
		"documento":  {"arquivo", "anexo", "oficio", "despacho"},
		"assinar":    {"subscrever", "firmar", "rubricar"},
		"assinatura": {"subscricao", "rubrica"},
		"anexar":     {"juntar", "incluir", "adicionar"},
		"prazo":      {"vencimento", "tempestividade", "data limite"},
		"consultar":  {"pesquisar", "buscar", "localizar", "verificar"},
		"unidade":    {"setor", "departamento", "orgao", "secretaria"},
		"usuario":    {"servidor", "funcionario", "operador"},
		"acesso":     {"login", "credencial", "permissao"},
		"excluir":    {"remover", "apagar", "cancelar"},
		"sigiloso":   {"restrito", "confidencial", "reservado"},
	}
}

// Expander performs deterministic, additive synonym expansion over a query.
type Expander struct {
	table Table
}

func NewExpander(table Table) *Expander {
	if table == nil {
		table = DefaultTable()
	}
	return &Expander{table: table}
}

// Expand tokenizes the query and grows the term set to its synonym closure.
// Original terms always come first and in order; added terms follow in
// sorted order, so the same query always yields the same expansion and
// re-expanding an expansion changes nothing.
func (e *Expander) Expand(query string) []string {
	original := Tokenize(query)
	if len(original) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(original))
	terms := make([]string, 0, len(original))
	for _, tok := range original {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		terms = append(terms, tok)
	}

	// Closure: synonyms of synonyms are folded in until nothing new
	// appears, which makes Expand(Expand(q)) == Expand(q).
	added := make([]string, 0)
	frontier := terms
	for len(frontier) > 0 {
		var next []string
		for _, term := range frontier {
			for _, syn := range e.table[term] {
				syn = normalizeTerm(syn)
				if syn == "" {
					continue
				}
				if _, ok := seen[syn]; ok {
					continue
				}
				seen[syn] = struct{}{}
				added = append(added, syn)
				next = append(next, syn)
			}
		}
		frontier = next
	}

	sort.Strings(added)
	return append(terms, added...)
}

// Tokenize lowercases, strips accents and splits on non-letter runes.
// Tokens shorter than 3 runes are dropped as noise.
func Tokenize(query string) []string {
	normalized := normalizeTerm(query)
	fields := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != ' '
	})

	var tokens []string
	for _, field := range fields {
		for _, word := range strings.Fields(field) {
			if len([]rune(word)) < 3 {
				continue
			}
			tokens = append(tokens, word)
		}
	}
	return tokens
}

var accentFold = map[rune]rune{
	'á': 'a', 'à': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a',
	'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
	'í': 'i', 'ì': 'i', 'î': 'i', 'ï': 'i',
	'ó': 'o', 'ò': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o',
	'ú': 'u', 'ù': 'u', 'û': 'u', 'ü': 'u',
	'ç': 'c', 'ñ': 'n',
}

func normalizeTerm(value string) string {
	lowered := strings.ToLower(strings.TrimSpace(value))
	if lowered == "" {
		return ""
	}
	var builder strings.Builder
	builder.Grow(len(lowered))
	for _, r := range lowered {
		if folded, ok := accentFold[r]; ok {
			r = folded
		}
		builder.WriteRune(r)
	}
	return builder.String()
}
