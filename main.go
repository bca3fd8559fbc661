package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/transcripts/internal/cli"
	"github.com/mrlokans/transcripts/internal/config"
	"github.com/mrlokans/transcripts/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

type command interface {
	ParseFlags(args []string) error
	Run() error
}

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	name := os.Args[1]
	args := os.Args[2:]

	var cmd command
	switch name {
	case "chat-export":
		cmd = cli.NewChatExportCommand()
	case "sms-export":
		cmd = cli.NewSMSExportCommand()
	case "split-users":
		cmd = cli.NewSplitUsersCommand()
	case "watch":
		cmd = cli.NewWatchCommand()

	case "version":
		fmt.Printf("transcripts %s (%s)\n", Version, Commit)
		return

	case "help", "-h", "--help":
		printUsage()
		return

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	if err := cmd.ParseFlags(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve        Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  chat-export  Render chat-export JSON files into text transcripts\n")
	fmt.Fprintf(os.Stderr, "  sms-export   Render SMS/MMS XML backups into text transcripts\n")
	fmt.Fprintf(os.Stderr, "  split-users  Split zipped exports into per-user JSON bundles\n")
	fmt.Fprintf(os.Stderr, "  watch        Convert the input directory on a cron schedule\n")
	fmt.Fprintf(os.Stderr, "  version      Print version information\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
