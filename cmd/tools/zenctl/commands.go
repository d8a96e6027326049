package main

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhouzirui/zenstellar/backend/internal/fallback"
	"github.com/zhouzirui/zenstellar/backend/internal/model/zodiac"
	"github.com/zhouzirui/zenstellar/backend/internal/service/ai"
	chatservice "github.com/zhouzirui/zenstellar/backend/internal/service/chat"
	"github.com/zhouzirui/zenstellar/backend/internal/service/sage"
)

// env holds what every subcommand needs.
type env struct {
	client *ai.Client
	songs  []string
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "zenctl",
		Short:         "Talk to the ZenStellar sage from the terminal",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(
		newFortuneCmd(e),
		newChatCmd(e),
		newInspireCmd(e),
		newSongsCmd(e),
	)
	return root
}

func newFortuneCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "fortune <sign>",
		Short: "Read today's fortune for a zodiac sign (id or Chinese name)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sign, ok := zodiac.NewMemoryStore(zodiac.Seed()).Find(args[0])
			if !ok {
				return fmt.Errorf("unknown zodiac sign %q", args[0])
			}

			result := e.client.Fortune(cmd.Context(), sign.Name)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n\n%s\n", sign.Icon, sign.Name, sign.Dates, fallback.Fortune(result))
			return nil
		},
	}
}

func newChatCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with the sage; one line per turn, \"exit\" or EOF to leave",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			chats := chatservice.NewService()
			sageSvc := sage.New(e.client, chats)
			conversation, welcome, err := chats.CreateConversation(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := sageSvc.Close(ctx, conversation.ID); err != nil {
					log.Printf("[zenctl] failed to close conversation %s: %v", conversation.ID, err)
				}
			}()

			for _, msg := range welcome {
				fmt.Fprintf(out, "sage> %s\n", msg.Text)
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "you> ")
				if !scanner.Scan() {
					fmt.Fprintln(out)
					return scanner.Err()
				}

				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					return nil
				}

				exchange, err := sageSvc.Ask(ctx, conversation.ID, line)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "sage> %s\n", exchange.Reply.Text)
			}
		},
	}
}

func newInspireCmd(e *env) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "inspire",
		Short: "Generate one zen inspiration image",
		RunE: func(cmd *cobra.Command, args []string) error {
			result := e.client.Inspire(cmd.Context())
			uri := fallback.Image(result)
			if uri == nil {
				return fmt.Errorf("no image generated (%s)", result.Failure)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "prompt: %s\n", result.Prompt)
			if outPath == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "image: %d bytes of data URI (use --out to save)\n", len(*uri))
				return nil
			}

			data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(*uri, ai.ImageDataURIPrefix))
			if err != nil {
				return fmt.Errorf("decode image payload: %w", err)
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("write image: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%d bytes)\n", outPath, len(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the PNG to this file")
	return cmd
}

func newSongsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "songs",
		Short: "List the guqin playlist",
		RunE: func(cmd *cobra.Command, args []string) error {
			for i, song := range e.songs {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s\n", i+1, song)
			}
			return nil
		},
	}
}
