package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"nexus-chat/internal/app"
	"nexus-chat/internal/cli"
	"nexus-chat/internal/render"
	"nexus-chat/internal/speech"
)

var rootCmd = &cobra.Command{
	Use:   "nexus",
	Short: "Nexus AI terminal chat",
	Long:  `Chat with Nexus AI from the terminal. Type /help for commands.`,
	RunE:  runChat,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print transcript events published by chat sessions",
	RunE:  runWatch,
}

func init() {
	rootCmd.Flags().String("audio", "", "FLAC recording used by /voice")
	rootCmd.Flags().Int("width", 0, "Render width (0 = terminal width)")
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := app.BuildWithLogOutput(os.Stderr)
	if err != nil {
		return err
	}
	defer deps.Close()

	width, _ := cmd.Flags().GetInt("width")
	term, err := render.NewAutoTerminal(width)
	if err != nil {
		deps.Log.Warn("markdown rendering disabled", "err", err)
	}

	repl := &cli.REPL{
		Session: deps.Session,
		Render:  term.Render,
		In:      cmd.InOrStdin(),
		Out:     cmd.OutOrStdout(),
	}
	if audio, _ := cmd.Flags().GetString("audio"); audio != "" {
		repl.Voice = deps.VoiceInput(speech.FileSource{Path: audio})
	}
	// Playback started by /speak is bound to ctx and stops with it.
	return repl.Run(ctx)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := app.BuildWithLogOutput(os.Stderr)
	if err != nil {
		return err
	}
	defer deps.Close()

	if deps.Config.EventsProvider == "none" {
		deps.Log.Warn("EVENTS_PROVIDER=none; no events will be delivered")
	}
	return cli.Watch(ctx, deps.Events, cmd.OutOrStdout())
}
