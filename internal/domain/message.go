package domain

const (
	MessageKindText  = "text"
	MessageKindImage = "image"
	MessageKindVideo = "video"
)

// FileData describes an uploaded media attachment. It is produced by the
// upload endpoint and accepted verbatim on media messages.
type FileData struct {
	URL              string `json:"url"`
	OriginalFilename string `json:"filename"`
	Kind             string `json:"type"`
}

// Message is one entry of a room's history. JSON field names follow the
// wire protocol, which predates this implementation. Timestamp is unix
// milliseconds. Body and Edited are the only mutable fields, both only
// via the edit operation.
type Message struct {
	ID        string    `json:"id"`
	Author    string    `json:"username"`
	Body      string    `json:"message"`
	Kind      string    `json:"type"`
	Media     *FileData `json:"fileData"`
	ReplyTo   string    `json:"replyTo,omitempty"`
	Timestamp int64     `json:"timestamp"`
	Edited    bool      `json:"edited"`
}
