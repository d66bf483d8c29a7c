package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tinytrack/internal/logging"
	"tinytrack/internal/store"
)

var chatSender string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive local session",
	Long: `Opens a terminal conversation against the configured store, using a
fixed sender identity. Useful for trying the bot without a gateway.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatSender, "sender", "0500000000", "sender identity for this session")
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := logging.Initialize(cfg.Logging.DataDir, cfg.Logging.DebugMode); err != nil {
		return err
	}
	defer logging.Close()

	st, err := store.New(cmd.Context(), cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	eng := buildEngine(st, cfg)

	fmt.Println("tinytrack chat. Type a message, or 'quit' to exit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}
		replies, err := eng.HandleMessage(cmd.Context(), chatSender, line)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			continue
		}
		for _, r := range replies {
			fmt.Println(r)
		}
		fmt.Println()
	}
	return scanner.Err()
}
