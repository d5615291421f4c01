package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kapilnchauhan77/marketing-consultant-agent/config"
	srv "github.com/kapilnchauhan77/marketing-consultant-agent/internal/server"
	"github.com/kapilnchauhan77/marketing-consultant-agent/models"
)

func chatCMD() *cobra.Command {
	var cfgPath string
	var chat = &cobra.Command{
		Use:   "chat",
		Short: "Interactive consulting session in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)
			return runChat(cmd.Context(), cfg)
		},
	}
	chat.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")

	return chat
}

func runChat(ctx context.Context, cfg *config.Config) error {
	g, err := srv.BuildGraph(cfg)
	if err != nil {
		return err
	}
	threadID, err := g.StartThread()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("Welcome to the AI Marketing Consultant.")
	fmt.Print("Enter the website URL to analyze: ")
	url, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return fmt.Errorf("a website URL is required to start")
	}

	input := models.Human("Generate a marketing media plan for the website: " + url)
	for {
		produced, err := g.Run(ctx, threadID, input)
		if err != nil {
			return fmt.Errorf("turn failed: %w", err)
		}
		for _, m := range produced {
			if m.Role == models.RoleAgent && m.Content != "" {
				fmt.Printf("\nAI: %s\n", m.Content)
			}
		}
		if len(produced) > 0 && produced[len(produced)-1].IsFinalPlan() {
			fmt.Println("\nFinal plan generated. Goodbye.")
			return nil
		}

		fmt.Print("\nYou: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		switch strings.ToLower(line) {
		case "quit", "exit", "stop":
			fmt.Println("Goodbye.")
			return nil
		case "":
			continue
		}
		input = models.Human(line)
	}
}
