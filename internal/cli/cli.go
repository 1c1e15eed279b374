// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for tubetalk.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdLogin
	CmdRegister
	CmdLogout
	CmdList
	CmdNew
	CmdRename
	CmdDelete
	CmdHistory
	CmdConfig
	CmdStatus
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	Server  string // Override server URL for this invocation

	// Command-specific
	ChatID     int64
	Query      string
	URL        string
	Name       string
	Confirm    bool
	ConfigKey  string
	ConfigVal  string
	Subcommand string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `tubetalk - chat with YouTube videos from your terminal

Tubetalk is a client for a video question-answering backend: point it
at a YouTube URL and ask questions about what the video says.

Usage:
  tubetalk                        Start TUI (default)
  tubetalk ask "question"         Ask a single question in a conversation
  tubetalk chat                   Interactive chat in a conversation
  tubetalk login                  Authenticate and store a token
  tubetalk register               Create an account
  tubetalk logout                 Discard the stored token
  tubetalk list, ls               List conversations
  tubetalk new <url>              Create a conversation for a video
  tubetalk rename <id> <name>     Rename a conversation
  tubetalk delete <id>            Delete a conversation
  tubetalk history <id>           Show a conversation transcript
  tubetalk config [show|get|set]  Configuration
  tubetalk status                 Show connection and auth status

Ask Command:
  tubetalk ask "question" --chat ID   Ask in an existing conversation
  tubetalk ask "question" --url URL   Create a conversation first, then ask
    --json                            Print the answer as JSON

Chat Command:
  tubetalk chat --chat ID             Open an existing conversation
  tubetalk chat --url URL             Create a conversation, then chat
  Interactive commands: /help /history /name <new> /quit

Config Commands:
  tubetalk config show                Show current configuration
  tubetalk config get <key>           Print one value (e.g. server.base_url)
  tubetalk config set <key> <value>   Set a value
  tubetalk config path                Print the config file location

Global Flags:
  --server URL    Override the backend server URL
  --json          Machine-readable output where supported
  -q, --quiet     Minimal output
  -v, --verbose   Debug output

Examples:
  tubetalk new https://youtu.be/dQw4w9WgXcQ
  tubetalk ask "What is the main argument?" --chat 3
  tubetalk ask "Summarize this" --url https://youtu.be/abc123
  tubetalk chat --chat 3
  tubetalk list --json
  tubetalk config set server.base_url http://127.0.0.1:8000

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("tubetalk version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
	fmt.Printf("  Go version: %s\n", runtime.Version())
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given arguments. Split out from Parse so it can be
// driven without touching os.Args.
func ParseArgs(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, args
	}

	first := remaining[0]
	cmd := strings.ToLower(first)
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, args

	case "ask":
		parseAskArgs(&args, remaining)
		return CmdAsk, args

	case "chat":
		parseChatArgs(&args, remaining)
		return CmdChat, args

	case "login":
		return CmdLogin, args

	case "register", "signup":
		return CmdRegister, args

	case "logout":
		return CmdLogout, args

	case "list", "ls":
		return CmdList, args

	case "new", "create":
		parseNewArgs(&args, remaining)
		return CmdNew, args

	case "rename":
		parseRenameArgs(&args, remaining)
		return CmdRename, args

	case "delete", "rm":
		parseDeleteArgs(&args, remaining)
		return CmdDelete, args

	case "history", "transcript":
		parseHistoryArgs(&args, remaining)
		return CmdHistory, args

	case "config":
		parseConfigArgs(&args, remaining)
		return CmdConfig, args

	case "status", "s":
		return CmdStatus, args

	case "version", "-v", "--version":
		return CmdVersion, args

	case "help", "-h", "--help":
		return CmdHelp, args

	default:
		// Unknown word: treat a URL-looking argument as "new", anything
		// else falls through to the TUI.
		if strings.HasPrefix(cmd, "http://") || strings.HasPrefix(cmd, "https://") {
			args.URL = first
			return CmdNew, args
		}
		args.Raw = append([]string{first}, remaining...)
		return CmdTUI, args
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var remaining []string
	var args Args

	i := 0
	for i < len(argv) {
		arg := argv[i]

		switch arg {
		case "-q", "--quiet":
			args.Quiet = true
		case "-v", "--verbose":
			args.Verbose = true
		case "--json":
			args.JSON = true
		case "--server":
			if i+1 < len(argv) {
				i++
				args.Server = argv[i]
			}
		default:
			if strings.HasPrefix(arg, "--server=") {
				args.Server = strings.TrimPrefix(arg, "--server=")
			} else {
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, args
}

// parseChatRef consumes --chat/--url style flags shared by ask and chat.
// Returns true when the flag at position i was consumed (i may advance).
func parseChatRef(args *Args, remaining []string, i *int) bool {
	arg := remaining[*i]
	switch arg {
	case "-c", "--chat":
		if *i+1 < len(remaining) {
			*i++
			if id, err := strconv.ParseInt(remaining[*i], 10, 64); err == nil {
				args.ChatID = id
			}
		}
		return true
	case "-u", "--url":
		if *i+1 < len(remaining) {
			*i++
			args.URL = remaining[*i]
		}
		return true
	}
	if strings.HasPrefix(arg, "--chat=") {
		if id, err := strconv.ParseInt(strings.TrimPrefix(arg, "--chat="), 10, 64); err == nil {
			args.ChatID = id
		}
		return true
	}
	if strings.HasPrefix(arg, "--url=") {
		args.URL = strings.TrimPrefix(arg, "--url=")
		return true
	}
	return false
}

// parseAskArgs parses ask command specific arguments.
func parseAskArgs(args *Args, remaining []string) {
	var query []string

	for i := 0; i < len(remaining); i++ {
		if parseChatRef(args, remaining, &i) {
			continue
		}
		if !strings.HasPrefix(remaining[i], "-") {
			query = append(query, remaining[i])
		}
	}

	args.Query = strings.Join(query, " ")
}

// parseChatArgs parses chat command specific arguments.
func parseChatArgs(args *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		if parseChatRef(args, remaining, &i) {
			continue
		}
		// A bare URL or numeric ID works without the flag.
		arg := remaining[i]
		if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
			args.URL = arg
		} else if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
			args.ChatID = id
		}
	}
}

// parseNewArgs parses new command specific arguments.
func parseNewArgs(args *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]
		switch {
		case arg == "--name" && i+1 < len(remaining):
			i++
			args.Name = remaining[i]
		case strings.HasPrefix(arg, "--name="):
			args.Name = strings.TrimPrefix(arg, "--name=")
		case !strings.HasPrefix(arg, "-") && args.URL == "":
			args.URL = arg
		}
	}
}

// parseRenameArgs parses rename command specific arguments.
func parseRenameArgs(args *Args, remaining []string) {
	var words []string
	for _, arg := range remaining {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		if args.ChatID == 0 {
			if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
				args.ChatID = id
				continue
			}
		}
		words = append(words, arg)
	}
	args.Name = strings.Join(words, " ")
}

// parseDeleteArgs parses delete command specific arguments.
func parseDeleteArgs(args *Args, remaining []string) {
	for _, arg := range remaining {
		switch {
		case arg == "--confirm", arg == "-y", arg == "--yes":
			args.Confirm = true
		default:
			if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
				args.ChatID = id
			}
		}
	}
}

// parseHistoryArgs parses history command specific arguments.
func parseHistoryArgs(args *Args, remaining []string) {
	for _, arg := range remaining {
		if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
			args.ChatID = id
		}
	}
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
		if len(remaining) > 1 {
			args.ConfigKey = remaining[1]
		}
		if len(remaining) > 2 {
			args.ConfigVal = strings.Join(remaining[2:], " ")
		}
	}
}

// HandleVersion handles the "version" command.
func HandleVersion(args Args) {
	if args.JSON {
		NewJSONResponse("version", map[string]string{
			"version":    Version,
			"git_commit": GitCommit,
			"build_date": BuildDate,
			"go_version": runtime.Version(),
		}).Print()
		return
	}
	PrintVersion()
}

// HandleHelp handles the "help" command.
func HandleHelp() {
	PrintUsage()
}
