package chat

import (
	"strings"

	"github.com/clarainova/clara-backend/internal/pkg/synonyms"
)

// RefusalMessage is the fixed reply for questions outside the assistant's
// declared scope. It is returned without contacting the LLM provider.
const RefusalMessage = "Desculpe, só posso ajudar com dúvidas sobre procedimentos " +
	"administrativos e legais, como processos, documentos, protocolos e serviços " +
	"públicos. Poderia reformular sua pergunta dentro desse tema?"

// scopeTerms are the accent-folded stems that mark a query as on-topic.
// Matching is prefix-based over folded tokens so inflections count
// (processo, processos, processual).
var scopeTerms = []string{
	"process", "tramit", "protocol", "document", "requer", "peticion",
	"despach", "licen", "alvar", "certid", "cadastr", "servidor",
	"orgao", "prefeitur", "secretari", "public", "administrat",
	"legal", "legisl", "norma", "regulament", "decret", "portari",
	"oficio", "memorand", "assinat", "anex", "prazo", "recurso",
	"autuac", "arquiv", "digitaliz", "sei", "sigilo", "acess",
	"servic", "atendiment", "agendament", "taxa", "guia", "emiss",
	"registr", "juntad", "instru", "notificac", "intimac",
	"diario", "edital", "contrat", "licitac", "conveni",
}

// InScope reports whether the query plausibly concerns administrative or
// legal procedures. The check is deterministic: folded tokens against a
// fixed stem list, no model involved.
func InScope(query string) bool {
	tokens := synonyms.Tokenize(query)
	for _, token := range tokens {
		for _, stem := range scopeTerms {
			if strings.HasPrefix(token, stem) {
				return true
			}
		}
	}
	return false
}
