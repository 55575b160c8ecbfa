package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/berrythewa/linkforward/internal/clipboard"
	"github.com/berrythewa/linkforward/pkg/format"
)

// clipboardReader is the source for open --clipboard. Tests replace it.
var clipboardReader clipboard.Reader = clipboard.NewAtottoClipboard()

// NewOpenCmd creates the open command
func NewOpenCmd() *cobra.Command {
	var (
		useJSON       bool
		fromClipboard bool
	)

	cmd := &cobra.Command{
		Use:   "open [url]",
		Short: "Hand a URL to the helper service",
		Long: `Send a URL to the local helper service, which decides how to open it
(for GitHub links: clone or update the repository and open it in the IDE).

The URL is passed through untouched; the helper validates it. With
--clipboard the URL is read from the system clipboard instead and must be
a GitHub link.

Examples:
  linkforward open https://github.com/foo/bar
  linkforward open https://github.com/foo/bar/pull/12 --json
  linkforward open --clipboard`,
		Args: func(cmd *cobra.Command, args []string) error {
			if fromClipboard {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !fromClipboard {
				return RunOpen(cmd, args[0], useJSON)
			}

			url, err := clipboard.ReadGitHubURL(clipboardReader)
			if err != nil {
				return err
			}
			GetZapLogger().Debug("Read URL from clipboard", zap.String("url", url))
			return RunOpen(cmd, url, useJSON)
		},
	}

	cmd.Flags().BoolVar(&useJSON, "json", false, "print the helper's reply as JSON")
	cmd.Flags().BoolVarP(&fromClipboard, "clipboard", "c", false, "read the URL from the clipboard")
	return cmd
}

// RunOpen forwards url and reports the outcome on the command's output.
func RunOpen(cmd *cobra.Command, url string, useJSON bool) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("url is required")
	}

	f, err := newForwarder()
	if err != nil {
		return err
	}

	resp, err := f.ForwardContext(cmd.Context(), url)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if useJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	p := format.NewPrinter(out)
	p.Success(resp.Message)
	if resp.Path != "" {
		p.Field("Path", resp.Path, 0)
	}
	return nil
}

func newPRCmd() *cobra.Command {
	var useJSON bool

	cmd := &cobra.Command{
		Use:   "pr <owner/repo> <number>",
		Short: "Open a GitHub pull request through the helper service",
		Long: `Build the pull request URL from a repository and PR number and
forward it to the helper service.

Example:
  linkforward pr microsoft/vscode 12345`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := pullRequestURL(args[0], args[1])
			if err != nil {
				return err
			}
			return RunOpen(cmd, url, useJSON)
		},
	}

	cmd.Flags().BoolVar(&useJSON, "json", false, "print the helper's reply as JSON")
	return cmd
}

func pullRequestURL(repo, number string) (string, error) {
	parts := strings.Split(strings.Trim(repo, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("repository must be owner/repo, got %q", repo)
	}

	n, err := strconv.Atoi(number)
	if err != nil || n <= 0 {
		return "", fmt.Errorf("PR number must be a positive integer, got %q", number)
	}

	return fmt.Sprintf("https://github.com/%s/%s/pull/%d", parts[0], parts[1], n), nil
}
