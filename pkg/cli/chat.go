package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"

	"github.com/keepsake-lab/keepsake/pkg/cli/config"
	"github.com/keepsake-lab/keepsake/pkg/domain/model"
	"github.com/keepsake-lab/keepsake/pkg/domain/types"
	"github.com/keepsake-lab/keepsake/pkg/service/session"
	"github.com/keepsake-lab/keepsake/pkg/usecase"
	"github.com/keepsake-lab/keepsake/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdChat() *cli.Command {
	var mode string
	var geminiCfg config.Gemini
	var repoCfg config.Repository
	var profileCfg config.Profile

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "mode",
			Usage:       "Initial dialogue mode (auto, add, recall, ground)",
			Value:       types.ModeAuto.String(),
			Sources:     cli.EnvVars("KEEPSAKE_MODE"),
			Destination: &mode,
		},
	}

	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, profileCfg.Flags()...)

	return &cli.Command{
		Name:    "chat",
		Aliases: []string{"c"},
		Usage:   "Interactive dialogue session on the terminal",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			initialMode, err := types.ParseMode(mode)
			if err != nil {
				return err
			}

			profile, err := profileCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load profile")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}

			sessions := session.New()
			uc := usecase.New(repo, llmClient, sessions, usecase.WithProfile(profile))

			return runChat(ctx, uc, initialMode, os.Stdin)
		},
	}
}

var (
	chatAssistant = color.New(color.FgCyan, color.Bold)
	chatNotice    = color.New(color.FgYellow)
	chatError     = color.New(color.FgRed)
)

func runChat(ctx context.Context, uc *usecase.UseCases, initialMode types.Mode, input *os.File) error {
	snap := uc.Sessions().Create(initialMode)
	sessionID := snap.ID

	chatNotice.Printf("Session %s started in %s mode. Commands: /mode <m>, /yes, /no, /quit\n", sessionID, initialMode)

	scanner := bufio.NewScanner(input)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := runChatCommand(ctx, uc, sessionID, line); quit {
				break
			}
			continue
		}

		result, err := uc.Dialogue.RunTurn(ctx, sessionID, line, types.MessageSourceText)
		if err != nil {
			chatError.Printf("error: %v\n", err)
			continue
		}

		chatAssistant.Printf("keepsake: %s\n", result.AssistantSpeech)
		if result.Action == types.ActionCreateMemory && result.Memory != nil {
			chatNotice.Printf("  proposed memory: %q (%s) - /yes to keep, /no to discard\n",
				result.Memory.Title, result.Memory.DateLabel)
		}
	}

	return scanner.Err()
}

// runChatCommand handles slash commands and reports whether the loop should
// terminate.
func runChatCommand(ctx context.Context, uc *usecase.UseCases, sessionID model.SessionID, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true

	case "/mode":
		if len(fields) < 2 {
			chatError.Println("usage: /mode <auto|add|recall|ground>")
			return false
		}
		m, err := types.ParseMode(fields[1])
		if err != nil {
			chatError.Printf("error: %v\n", err)
			return false
		}
		if err := uc.Sessions().SetMode(sessionID, m); err != nil {
			chatError.Printf("error: %v\n", err)
			return false
		}
		chatNotice.Printf("switched to %s mode\n", m)

	case "/yes":
		mem, err := uc.Proposal.Confirm(ctx, sessionID)
		if err != nil {
			if errors.Is(err, usecase.ErrNoPendingProposal) {
				chatNotice.Println("nothing to confirm")
			} else {
				chatError.Printf("error: %v\n", err)
			}
			return false
		}
		chatNotice.Printf("saved memory %q for %s\n", mem.Title, mem.HappenedOn.Format("2006-01-02"))

	case "/no":
		if err := uc.Proposal.Dismiss(ctx, sessionID); err != nil {
			if errors.Is(err, usecase.ErrNoPendingProposal) {
				chatNotice.Println("nothing to discard")
			} else {
				chatError.Printf("error: %v\n", err)
			}
			return false
		}
		chatNotice.Println("discarded the proposed memory")

	default:
		chatError.Printf("unknown command: %s\n", fields[0])
	}

	return false
}
