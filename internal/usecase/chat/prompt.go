package chat

import (
	"fmt"
	"strings"

	"github.com/clarainova/clara-backend/internal/entity"
)

const systemPrompt = `Você é a CLARA, assistente virtual especializada em procedimentos ` +
	`administrativos e legais brasileiros. Responda sempre em português, de forma clara ` +
	`e objetiva, com base exclusivamente no contexto fornecido. Quando citar uma fonte, ` +
	`use o título do documento entre colchetes. Se o contexto não cobrir a pergunta, ` +
	`diga isso explicitamente em vez de inventar uma resposta.`

// buildMessages assembles the provider message list: system prompt with
// grounding context first, then the client-held history, then the query.
func buildMessages(req *entity.ChatRequest, results []entity.SearchResult, webResults []entity.WebResult) []entity.LLMMessage {
	var context strings.Builder

	if len(results) > 0 {
		context.WriteString("Contexto da base de conhecimento:\n\n")
		for _, result := range results {
			fmt.Fprintf(&context, "[%s]\n%s\n\n", result.DocumentTitle, result.Content)
		}
	}
	if len(webResults) > 0 {
		context.WriteString("Resultados da busca na web:\n\n")
		for _, result := range webResults {
			fmt.Fprintf(&context, "[%s] (%s)\n%s\n\n", result.Title, result.URL, result.Snippet)
		}
	}

	prompt := systemPrompt
	if context.Len() > 0 {
		prompt += "\n\n" + context.String()
	}

	messages := make([]entity.LLMMessage, 0, len(req.ConversationHistory)+2)
	messages = append(messages, entity.LLMMessage{Role: "system", Content: prompt})
	for _, turn := range req.ConversationHistory {
		messages = append(messages, entity.LLMMessage{Role: string(turn.Role), Content: turn.Content})
	}
	messages = append(messages, entity.LLMMessage{Role: "user", Content: req.Message})
	return messages
}

func collectSources(results []entity.SearchResult, webResults []entity.WebResult) []entity.Source {
	sources := make([]entity.Source, 0, len(results)+len(webResults))
	seen := make(map[string]bool)

	for _, result := range results {
		if seen[result.DocumentTitle] {
			continue
		}
		seen[result.DocumentTitle] = true
		sources = append(sources, entity.Source{
			Kind:  entity.SourceKindKnowledgeBase,
			Title: result.DocumentTitle,
		})
	}
	for _, result := range webResults {
		if seen[result.URL] {
			continue
		}
		seen[result.URL] = true
		sources = append(sources, entity.Source{
			Kind:  entity.SourceKindWeb,
			Title: result.Title,
			URL:   result.URL,
		})
	}
	return sources
}
