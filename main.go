package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vassetti/patter/internal/config"
	"github.com/vassetti/patter/internal/logging"
	"github.com/vassetti/patter/internal/store"
	"github.com/vassetti/patter/internal/ui"
)

const version = "0.1.0"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "-v", "--version":
			fmt.Printf("Patter v%s\n", version)
			return
		case "help", "-h", "--help":
			printHelp()
			return
		default:
			fmt.Printf("Unknown command: %s\n", os.Args[1])
			printHelp()
			os.Exit(1)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	logging.Init(logging.Config{Level: cfg.LogLevel})

	dbPath := cfg.Database
	if dbPath == "" {
		dbPath = store.DefaultPath()
	}
	st, err := store.Open(dbPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	initialModel := ui.NewMenuModel(st, cfg.Author)
	p := tea.NewProgram(initialModel, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	help := `Patter - Shared Board Chat

Usage:
  patter             Start the chat client
  patter version     Show version information
  patter help        Show this help message

Navigation:
  ↑/↓ or j/k        Navigate lists / scroll messages
  Enter             Select/Open item
  ESC               Go back
  q                 Quit from current view
  ctrl+c            Force quit

Menu:
  💬 Channels       Follow and send messages
  👥 Contacts       Display names for board handles

Channels:
  n                 Create a channel
  /                 Search channels
  r                 Refresh channel list

Messages:
  n or c            Compose new message
  r                 Refresh messages
  ctrl+s            Send message (while composing)
  ↑/↓ or j/k        Scroll messages

The header of every channel shows how many messages are still unread:
a message counts as read once it has been fully visible on screen.

Storage:
  The board lives in ~/.patter/patter.db (override with PATTER_DB or
  the database key in ~/.patter/config.yml). Every process appending
  to the same file shows up in the same channels.
  Contacts are stored in ~/.patter/contacts/ as YAML files.
`
	fmt.Print(help)
}
