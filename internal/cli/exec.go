package cli

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrMissingDependency is returned when a required external tool is
// absent from PATH.
var ErrMissingDependency = errors.New("missing dependency")

// checkDependencies verifies that every listed external tool exists,
// reporting all missing ones in a single error. It runs before any
// network activity.
func checkDependencies(tools ...string) error {
	var missing []string
	for _, tool := range tools {
		if tool == "" {
			continue
		}
		if _, err := exec.LookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingDependency, strings.Join(missing, ", "))
	}
	return nil
}

// clipboardTool extracts the executable name from the configured
// clipboard command line.
func clipboardTool(clipboardCmd string) string {
	fields := strings.Fields(clipboardCmd)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// copyToClipboard pipes text into the configured clipboard command.
func copyToClipboard(ctx context.Context, clipboardCmd, text string) error {
	fields := strings.Fields(clipboardCmd)
	if len(fields) == 0 {
		return fmt.Errorf("no clipboard command configured")
	}

	cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to copy with %s: %w", fields[0], err)
	}
	return nil
}

// openBrowser hands the rendered document file to the browser command.
func openBrowser(ctx context.Context, browser, path string) error {
	if browser == "" {
		return fmt.Errorf("no browser command configured")
	}
	cmd := exec.CommandContext(ctx, browser, path)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open %s with %s: %w", path, browser, err)
	}
	return nil
}
