package entity

// LLMMessage is a single turn sent to the chat-completions API.
type LLMMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatStreamDelta carries one increment of a streamed completion.
type ChatStreamDelta struct {
	Content      string
	FullContent  string
	FinishReason string
	Done         bool
}

type ChatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type ChatResult struct {
	Content string
	Usage   *ChatUsage
}

// OCRBatch is one bounded page range of a source file sent to the
// multimodal endpoint for transcription.
type OCRBatch struct {
	Data      []byte
	MimeType  string
	FirstPage int
	LastPage  int
}

type WebResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}
