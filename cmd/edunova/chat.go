package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/app"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/chatbot"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/config"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/domain"
)

const cliOwner = "cli"

func newChatCmd(opts *rootOptions) *cobra.Command {
	var courseTitle, lessonTitle string
	var withSearch bool
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the study assistant on the terminal",
		Long:  "Reads one message per line. Type /clear to reset the conversation and /quit to exit.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			chat, closeChat, err := newCLIChat(withSearch)
			if err != nil {
				return err
			}
			defer closeChat()

			if courseTitle != "" || lessonTitle != "" {
				patch := domain.ContextPatch{}
				if courseTitle != "" {
					patch.CourseTitle = &courseTitle
				}
				if lessonTitle != "" {
					patch.LessonTitle = &lessonTitle
				}
				chat.UpdateContext(cliOwner, patch)
			}
			return runChat(cmd.Context(), cmd, opts, chat)
		},
	}
	cmd.Flags().StringVar(&courseTitle, "course", "", "course title for context-aware replies")
	cmd.Flags().StringVar(&lessonTitle, "lesson", "", "lesson title for context-aware replies")
	cmd.Flags().BoolVar(&withSearch, "search", false, "enable web search using SEARCH_PROVIDER settings")
	return cmd
}

func runChat(ctx context.Context, cmd *cobra.Command, opts *rootOptions, chat *chatbot.Service) error {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	_, _ = fmt.Fprint(out, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
		case "/quit", "/exit":
			return nil
		case "/clear":
			chat.ClearHistory(cliOwner)
			_, _ = fmt.Fprintln(out, "Conversation cleared.")
		default:
			reply := chat.SendMessage(ctx, chatbot.MessageRequest{
				OwnerID: cliOwner,
				Message: line,
				Channel: "cli",
			})
			printMarkdown(out, opts, reply.Response)
			for _, src := range reply.Sources {
				_, _ = fmt.Fprintf(out, "  source: %s\n", src)
			}
		}
		_, _ = fmt.Fprint(out, "> ")
	}
	return scanner.Err()
}

func newTipsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tips [topic]",
		Short: "Show study tips, optionally for a topic",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chat, closeChat, err := newCLIChat(false)
			if err != nil {
				return err
			}
			defer closeChat()
			printMarkdown(cmd.OutOrStdout(), opts, chat.StudyTips(strings.Join(args, " ")))
			return nil
		},
	}
}

func newExplainCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "explain <concept>",
		Short: "Explain a programming, math or science concept",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chat, closeChat, err := newCLIChat(false)
			if err != nil {
				return err
			}
			defer closeChat()
			printMarkdown(cmd.OutOrStdout(), opts, chat.ExplainConcept(strings.Join(args, " ")))
			return nil
		},
	}
}

// newCLIChat builds a chat service without the conversation audit log. Search
// settings come from the environment only when withSearch is set.
func newCLIChat(withSearch bool) (*chatbot.Service, func(), error) {
	searchCfg := config.SearchConfig{Provider: config.SearchProviderNone}
	if withSearch {
		cfg, err := config.Load()
		if err != nil {
			return nil, nil, err
		}
		searchCfg = cfg.Search
	}
	searcher := app.NewSearch(searchCfg, nil)
	chat, err := app.NewChat(config.ConversationLogConfig{}, searcher, nil, nil)
	if err != nil {
		searcher.Close()
		return nil, nil, err
	}
	return chat.Service, func() {
		_ = chat.Close()
		searcher.Close()
	}, nil
}
