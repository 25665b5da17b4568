package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tmpmail/internal/address"
	"tmpmail/internal/config"
	"tmpmail/internal/history"
	"tmpmail/internal/inbox"
	"tmpmail/internal/parser"
	"tmpmail/internal/provider"
	"tmpmail/internal/render"
	"tmpmail/internal/session"
	"tmpmail/pkg/models"
)

// Deps everything the command surface needs
type Deps struct {
	Config    *config.Config
	Provider  *provider.Client
	Addresses *address.Manager
	Inbox     *inbox.Service
	Renderer  *render.Renderer
	Session   *session.Store
	History   *history.DB // may be nil
	Codes     *parser.CodeDetector
	Logger    *slog.Logger
	Version   string
}

// NewRootCmd builds the single flag-style command: a bare invocation
// lists the inbox, flags select the other operations.
func NewRootCmd(deps Deps) *cobra.Command {
	var (
		generate bool
		domains  bool
		recent   bool
		rawText  bool
		copyAddr bool
		browser  string
	)

	cmd := &cobra.Command{
		Use:   "tmpmail [flags] [message-id]",
		Short: "Disposable email inbox in your terminal",
		Long: `tmpmail keeps one throwaway email address alive for you: it asks a
public temporary-mailbox provider for an address, remembers it between
runs, and lets you list and read whatever lands in it.

Run with no arguments to list the inbox. Pass a message id (or -r for
the most recent message) to read one.`,
		Version:       deps.Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *deps.Config
			if browser != "" {
				cfg.Browser = browser
			}
			if rawText {
				cfg.RawText = true
			}

			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}

			r := &runner{deps: deps, cfg: &cfg}
			ctx := cmd.Context()

			// External tools are verified up front, before any
			// network activity, and reported together
			var tools []string
			if copyAddr {
				tools = append(tools, clipboardTool(cfg.ClipboardCmd))
			}
			viewing := recent || (!generate && arg != "")
			if viewing && !cfg.RawText {
				tools = append(tools, cfg.Browser)
			}
			if err := checkDependencies(tools...); err != nil {
				return err
			}

			switch {
			case domains:
				return r.listDomains(ctx)
			case generate:
				return r.generate(ctx, arg, copyAddr)
			case recent:
				return r.viewRecent(ctx)
			case arg != "":
				id, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("argument %q is not a message id", arg)
				}
				return r.view(ctx, id)
			case copyAddr:
				return r.copyAddress(ctx)
			default:
				return r.listInbox(ctx)
			}
		},
	}

	cmd.Flags().BoolVarP(&generate, "generate", "g", false, "generate a new address; a custom username@domain may be given as the argument")
	cmd.Flags().BoolVarP(&domains, "domains", "d", false, "list the domains the provider currently offers")
	cmd.Flags().BoolVarP(&recent, "recent", "r", false, "view the most recent message")
	cmd.Flags().BoolVarP(&rawText, "text", "t", false, "print messages as raw text instead of opening a browser")
	cmd.Flags().BoolVarP(&copyAddr, "copy", "c", false, "copy the active address to the clipboard")
	cmd.Flags().StringVarP(&browser, "browser", "b", "", "browser command used to display HTML messages")
	cmd.MarkFlagsMutuallyExclusive("generate", "domains", "recent")

	return cmd
}

// runner carries one invocation's resolved configuration.
type runner struct {
	deps Deps
	cfg  *config.Config
}

// listDomains prints the provider's current domain set.
func (r *runner) listDomains(ctx context.Context) error {
	domains, err := r.deps.Provider.Domains(ctx)
	if err != nil {
		return err
	}
	for _, d := range domains {
		fmt.Println(d)
	}
	return nil
}

// generate creates (and persists) a new identity.
func (r *runner) generate(ctx context.Context, custom string, copyAddr bool) error {
	addr, err := r.deps.Addresses.Generate(ctx, custom)
	if err != nil {
		return err
	}
	fmt.Println(addr.String())

	if copyAddr {
		return copyToClipboard(ctx, r.cfg.ClipboardCmd, addr.String())
	}
	return nil
}

// copyAddress copies the active identity to the clipboard.
func (r *runner) copyAddress(ctx context.Context) error {
	addr, err := r.deps.Addresses.Ensure(ctx)
	if err != nil {
		return err
	}
	fmt.Println(addr.String())
	return copyToClipboard(ctx, r.cfg.ClipboardCmd, addr.String())
}

// listInbox prints the inbox table for the active identity.
func (r *runner) listInbox(ctx context.Context) error {
	addr, err := r.deps.Addresses.Ensure(ctx)
	if err != nil {
		return err
	}

	messages, err := r.deps.Inbox.List(ctx, addr)
	if err != nil {
		return err
	}

	fmt.Printf("[ %s ]\n\n", addr.String())
	return r.deps.Inbox.WriteTable(ctx, os.Stdout, addr, messages)
}

// viewRecent views the last message of the listing.
func (r *runner) viewRecent(ctx context.Context) error {
	addr, err := r.deps.Addresses.Ensure(ctx)
	if err != nil {
		return err
	}

	id, ok, err := r.deps.Inbox.MostRecentID(ctx, addr)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("No new mail.")
		return nil
	}
	return r.viewWith(ctx, addr, id)
}

// view views one message by id.
func (r *runner) view(ctx context.Context, id int) error {
	addr, err := r.deps.Addresses.Ensure(ctx)
	if err != nil {
		return err
	}
	return r.viewWith(ctx, addr, id)
}

func (r *runner) viewWith(ctx context.Context, addr models.EmailAddress, id int) error {
	format := models.FormatHTML
	if r.cfg.RawText {
		format = models.FormatText
	}

	doc, err := r.deps.Renderer.View(ctx, addr, id, format)
	if err != nil {
		return err
	}

	if r.deps.History != nil {
		if err := r.deps.History.MarkViewed(ctx, addr, doc.MessageID, doc.Subject); err != nil {
			r.deps.Logger.Warn("failed to record view", "error", err)
		}
	}

	if format == models.FormatText {
		fmt.Println(doc.Content)
		if codes := r.deps.Codes.Detect(doc.Content); len(codes) > 0 {
			fmt.Println()
			fmt.Println("Detected codes:", strings.Join(codes, " "))
		}
		return nil
	}

	return openBrowser(ctx, r.cfg.Browser, r.deps.Session.DocumentPath())
}
