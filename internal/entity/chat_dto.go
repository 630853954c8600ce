package entity

// ChatHistoryMessage is one prior turn supplied by the client. The server
// holds no session state; history travels with every request.
type ChatHistoryMessage struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

type ChatRequest struct {
	Message             string               `json:"message"`
	ConversationHistory []ChatHistoryMessage `json:"conversationHistory"`
	Mode                ChatMode             `json:"mode,omitempty"`
}

// StreamEvent is one server-sent event relayed to the chat client.
type StreamEvent struct {
	Event   string `json:"-"`
	Payload any    `json:"-"`
}

// Stream event names emitted during a chat turn.
const (
	StreamEventDelta   = "delta"
	StreamEventSources = "sources"
	StreamEventNotice  = "notice"
	StreamEventDone    = "done"
	StreamEventError   = "error"
)

type StreamDeltaPayload struct {
	Delta string `json:"delta"`
	Full  string `json:"full,omitempty"`
}

type StreamSourcesPayload struct {
	Sources []Source `json:"sources"`
}

type StreamNoticePayload struct {
	Message string `json:"message"`
}

type StreamDonePayload struct {
	QueryID string `json:"query_id,omitempty"`
	Status  string `json:"status"`
}

type StreamErrorPayload struct {
	Error string    `json:"error"`
	Code  ErrorCode `json:"code"`
}

type ExportFormat string

const (
	FormatMarkdown ExportFormat = "markdown"
	FormatDOCX     ExportFormat = "docx"
	FormatPDF      ExportFormat = "pdf"
)

func (ef ExportFormat) Validate() error {
	switch ef {
	case FormatMarkdown, FormatDOCX, FormatPDF:
		return nil
	default:
		return ErrInvalidFormat
	}
}

// ExportRequest renders one answered turn into a downloadable file.
type ExportRequest struct {
	Query    string       `json:"query"`
	Response string       `json:"response"`
	Sources  []Source     `json:"sources,omitempty"`
	Format   ExportFormat `json:"format"`
}

type FeedbackRequest struct {
	QueryID          string  `json:"query_id"`
	Rating           int     `json:"rating"`
	FeedbackCategory *string `json:"feedback_category,omitempty"`
	FeedbackText     *string `json:"feedback_text,omitempty"`
}

type FrontendErrorRequest struct {
	ErrorMessage   string `json:"error_message"`
	ComponentStack string `json:"component_stack"`
	URL            string `json:"url"`
}
