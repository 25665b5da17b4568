package models

// MessageSummary is one inbox listing row
type MessageSummary struct {
	ID      int    `json:"id"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
}

// MessageDetail is the full content of one message as the provider
// returns it. At least one of HTMLBody/TextBody is present; when
// HTMLBody is empty, TextBody is the authoritative content.
type MessageDetail struct {
	ID          int          `json:"id"`
	From        string       `json:"from"`
	Subject     string       `json:"subject"`
	Date        string       `json:"date"`
	Body        string       `json:"body"`
	TextBody    string       `json:"textBody"`
	HTMLBody    string       `json:"htmlBody"`
	Attachments []Attachment `json:"attachments"`
}

// Attachment is one attachment as listed by the provider. The
// download link is not part of the payload; it is derived from the
// provider base URL, the address and the message id. Duplicate
// filenames are legal and kept in provider order.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}
