package commands

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewConfigureCommand creates the configure command.
func NewConfigureCommand() *cobra.Command {
	var (
		apiKey string
		baseID string
	)

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Store API credentials",
		Long:  "Prompt for an API key and base ID and store them in ~/.airtable/config.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiKey == "" {
				fmt.Print("API key: ")

				keyBytes, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read API key: %w", err)
				}

				apiKey = strings.TrimSpace(string(keyBytes))

				fmt.Println()
			}

			if baseID == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("Base ID: ")
				baseID, _ = reader.ReadString('\n')
				baseID = strings.TrimSpace(baseID)
			}

			viper.Set("api-key", apiKey)
			viper.Set("base", baseID)

			if err := saveConfig(); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Stored credentials for base %s (key %s)\n", baseID, MaskAPIKey(apiKey))

			return nil
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key (prompted when omitted)")
	cmd.Flags().StringVar(&baseID, "base", "", "base ID (prompted when omitted)")

	return cmd
}

func saveConfig() error {
	if cfgFile := viper.ConfigFileUsed(); cfgFile != "" {
		if err := viper.WriteConfig(); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}

		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to resolve home directory: %w", err)
	}

	cfgFile := filepath.Join(home, ".airtable", "config.yml")
	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
