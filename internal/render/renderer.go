package render

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"tmpmail/internal/parser"
	"tmpmail/pkg/models"
)

// MessageSource fetches message content and derives attachment links.
type MessageSource interface {
	Message(ctx context.Context, addr models.EmailAddress, id int) (*models.MessageDetail, error)
	AttachmentURL(addr models.EmailAddress, id int, filename string) string
}

// Shortener shortens attachment links for text output. Best effort:
// the renderer falls back to the long URL on any failure.
type Shortener interface {
	Shorten(ctx context.Context, longURL string) (string, error)
}

// DocumentStore holds the last-rendered-document slot.
type DocumentStore interface {
	SaveDocument(models.RenderedDocument) error
}

// Renderer turns one fetched message into a displayable document.
type Renderer struct {
	source    MessageSource
	shortener Shortener
	store     DocumentStore
	reducer   *parser.HTMLToText
	logger    *slog.Logger
}

// Deps dependencies for creating a renderer
type Deps struct {
	Source    MessageSource
	Shortener Shortener
	Store     DocumentStore
	Reducer   *parser.HTMLToText
	Logger    *slog.Logger
}

// NewRenderer creates a new message renderer
func NewRenderer(deps Deps) *Renderer {
	return &Renderer{
		source:    deps.Source,
		shortener: deps.Shortener,
		store:     deps.Store,
		reducer:   deps.Reducer,
		logger:    deps.Logger.With("component", "render"),
	}
}

// View fetches a message, renders it and overwrites the cached
// last-viewed document. A fetch failure produces no partial render
// and leaves the cache untouched.
func (r *Renderer) View(ctx context.Context, addr models.EmailAddress, id int, format models.DocumentFormat) (models.RenderedDocument, error) {
	detail, err := r.source.Message(ctx, addr, id)
	if err != nil {
		return models.RenderedDocument{}, err
	}

	doc, err := r.Render(ctx, addr, detail, format)
	if err != nil {
		return models.RenderedDocument{}, err
	}

	if err := r.store.SaveDocument(doc); err != nil {
		return models.RenderedDocument{}, fmt.Errorf("failed to cache document: %w", err)
	}
	return doc, nil
}

// Render builds the document: a synthesized preformatted header
// block, the body, and an attachment section when there are any. In
// text format the whole document, headers included, goes through the
// HTML-to-text reduction before being returned.
func (r *Renderer) Render(ctx context.Context, addr models.EmailAddress, detail *models.MessageDetail, format models.DocumentFormat) (models.RenderedDocument, error) {
	var sb strings.Builder

	// The header block is synthesized locally, not provider-supplied
	sb.WriteString("<pre>")
	sb.WriteString("To: " + addr.String() + "\n")
	sb.WriteString("From: " + detail.From + "\n")
	sb.WriteString("Subject: " + detail.Subject + "\n")
	sb.WriteString("</pre>\n")

	if detail.HTMLBody != "" {
		sb.WriteString(detail.HTMLBody)
	} else {
		// Text-only message: the text body is authoritative and is
		// displayed preformatted
		sb.WriteString("<pre>")
		sb.WriteString(detail.TextBody)
		sb.WriteString("</pre>")
	}

	if len(detail.Attachments) > 0 {
		sb.WriteString("\n<hr>\n<p>Attachments:</p>\n")
		for _, att := range detail.Attachments {
			link := r.source.AttachmentURL(addr, detail.ID, att.Filename)
			if format == models.FormatText {
				sb.WriteString("<div>" + r.shortLink(ctx, link) + " [" + att.Filename + "]</div>\n")
			} else {
				sb.WriteString(fmt.Sprintf("<div><a href=%q download>%s</a></div>\n", link, att.Filename))
			}
		}
	}

	content := sb.String()
	if format == models.FormatText {
		reduced, err := r.reducer.Reduce(content)
		if err != nil {
			return models.RenderedDocument{}, fmt.Errorf("failed to reduce document to text: %w", err)
		}
		content = reduced
	}

	return models.RenderedDocument{
		MessageID: detail.ID,
		Subject:   detail.Subject,
		Format:    format,
		Content:   content,
	}, nil
}

// shortLink shortens an attachment link, falling back to the long URL.
func (r *Renderer) shortLink(ctx context.Context, longURL string) string {
	if r.shortener == nil {
		return longURL
	}
	short, err := r.shortener.Shorten(ctx, longURL)
	if err != nil {
		r.logger.Warn("failed to shorten link, using long url", "error", err)
		return longURL
	}
	return short
}
