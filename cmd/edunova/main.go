// Command edunova is the operator CLI: chat with the study assistant, evaluate
// arithmetic, summarize lesson files and import course catalogs.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	logLevel string
	plain    bool
	width    int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "edunova",
		Short:         "EduNova study assistant tools",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load()
			var level slog.Level
			if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
				return fmt.Errorf("invalid --log-level %q: %w", opts.logLevel, err)
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&opts.plain, "plain", false, "print markdown without terminal styling")
	root.PersistentFlags().IntVar(&opts.width, "width", 100, "word wrap width for rendered output")

	root.AddCommand(
		newChatCmd(opts),
		newTipsCmd(opts),
		newExplainCmd(opts),
		newEvalCmd(),
		newSummarizeCmd(opts),
		newImportCmd(),
	)
	return root
}

// printMarkdown renders md for the terminal unless --plain is set or styling fails.
func printMarkdown(w io.Writer, opts *rootOptions, md string) {
	if !opts.plain {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(opts.width),
		)
		if err == nil {
			if out, err := r.Render(md); err == nil {
				_, _ = io.WriteString(w, out)
				return
			}
		}
	}
	_, _ = fmt.Fprintln(w, md)
}
