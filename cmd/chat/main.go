package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"scrapp/internal/chatui"
)

func main() {
	godotenv.Load()

	serverURL := os.Getenv("SCRAPP_SERVER_URL")
	if serverURL == "" {
		serverURL = "http://localhost:8080"
	}
	model := os.Getenv("SCRAPP_MODEL")

	client := chatui.NewClient(serverURL)
	p := tea.NewProgram(chatui.NewModel(client, model), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
