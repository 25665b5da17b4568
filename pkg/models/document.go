package models

// DocumentFormat selects how a message is rendered.
type DocumentFormat string

const (
	FormatHTML DocumentFormat = "html"
	FormatText DocumentFormat = "text"
)

// RenderedDocument is the displayable form of one message: a
// synthesized header block, the body and an optional attachment
// section. A single cached copy exists at a time, overwritten on
// each view.
type RenderedDocument struct {
	MessageID int
	Subject   string
	Format    DocumentFormat
	Content   string
}
