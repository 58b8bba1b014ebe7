package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/app"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/config"
)

func newSummarizeCmd(opts *rootOptions) *cobra.Command {
	var title, mode string
	var maxWords int
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "summarize <file>",
		Short: "Summarize a lesson file, or produce study notes or key concepts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read lesson: %w", err)
			}
			if title == "" {
				title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			s := app.NewSummarizer(cmd.Context(), cfg, nil)
			defer func() { _ = s.Close() }()

			var envelope any
			var markdown string
			switch mode {
			case "summary":
				env := s.SummarizeContent(cmd.Context(), string(content), title, maxWords)
				envelope = env
				var b strings.Builder
				fmt.Fprintf(&b, "# %s\n\n%s\n\n", title, env.Data.Summary)
				for _, p := range env.Data.KeyPoints {
					fmt.Fprintf(&b, "- %s\n", p)
				}
				fmt.Fprintf(&b, "\n*%d min read, %s*\n", env.Data.EstimatedReadingTime, env.Data.Difficulty)
				markdown = b.String()
			case "notes":
				env := s.GenerateStudyNotes(cmd.Context(), string(content), title)
				envelope, markdown = env, env.Data
			case "concepts":
				env := s.ExtractKeyConcepts(cmd.Context(), string(content))
				envelope = env
				markdown = "- " + strings.Join(env.Data, "\n- ")
			default:
				return fmt.Errorf("unknown --mode %q (summary, notes, concepts)", mode)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(envelope)
			}
			printMarkdown(cmd.OutOrStdout(), opts, markdown)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "lesson title (defaults to the file name)")
	cmd.Flags().StringVar(&mode, "mode", "summary", "output: summary, notes or concepts")
	cmd.Flags().IntVar(&maxWords, "max-words", 200, "summary length limit")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw result envelope as JSON")
	return cmd
}
