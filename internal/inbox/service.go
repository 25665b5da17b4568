package inbox

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"tmpmail/pkg/models"
)

// MessageLister returns the inbox listing for an address.
type MessageLister interface {
	Messages(ctx context.Context, addr models.EmailAddress) ([]models.MessageSummary, error)
}

// SeenChecker reports which message ids have been viewed before.
type SeenChecker interface {
	Seen(ctx context.Context, addr models.EmailAddress, ids []int) (map[int]bool, error)
}

// Service lists messages for the active identity.
type Service struct {
	lister  MessageLister
	history SeenChecker // optional; nil disables the unseen marker
	logger  *slog.Logger
}

// NewService creates a new inbox service
func NewService(lister MessageLister, history SeenChecker, logger *slog.Logger) *Service {
	return &Service{
		lister:  lister,
		history: history,
		logger:  logger.With("component", "inbox"),
	}
}

// List returns the inbox in the provider's order, unsorted.
func (s *Service) List(ctx context.Context, addr models.EmailAddress) ([]models.MessageSummary, error) {
	return s.lister.Messages(ctx, addr)
}

// MostRecentID returns the id of the last listing entry, false when
// the inbox is empty. Position in the listing is the contract here;
// the provider sends no timestamp to order by.
func (s *Service) MostRecentID(ctx context.Context, addr models.EmailAddress) (int, bool, error) {
	messages, err := s.List(ctx, addr)
	if err != nil {
		return 0, false, err
	}
	if len(messages) == 0 {
		return 0, false, nil
	}
	return messages[len(messages)-1].ID, true, nil
}

// WriteTable renders a listing for the terminal. Messages never
// viewed before carry a * marker. An empty inbox prints a distinct
// no-mail line instead of an empty table.
func (s *Service) WriteTable(ctx context.Context, w io.Writer, addr models.EmailAddress, messages []models.MessageSummary) error {
	if len(messages) == 0 {
		_, err := fmt.Fprintln(w, "No new mail.")
		return err
	}

	seen := make(map[int]bool)
	if s.history != nil {
		ids := make([]int, len(messages))
		for i, m := range messages {
			ids[i] = m.ID
		}
		var err error
		seen, err = s.history.Seen(ctx, addr, ids)
		if err != nil {
			// History is a convenience, never a reason to fail a listing
			s.logger.Warn("failed to load view history", "error", err)
			seen = make(map[int]bool)
		}
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFROM\tSUBJECT\t")
	for _, m := range messages {
		marker := "*"
		if seen[m.ID] {
			marker = ""
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", m.ID, m.From, m.Subject, marker)
	}
	return tw.Flush()
}
