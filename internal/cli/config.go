package cli

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/bnema/undock/internal/config"
)

// NewConfigCmd creates the config command.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage undock configuration",
		Long:  `Open the configuration file in your editor or print its path.`,
		RunE:  openConfig,
	}
	cmd.Flags().Bool("path", false, "Print the full path of the config file")

	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Generate the JSON schema for the configuration file",
		Long:  `Write config.schema.json next to the configuration file, for editor completion and validation.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return config.GenerateSchemaFile()
		},
	}
	cmd.AddCommand(schemaCmd)

	return cmd
}

// openConfig opens the config file in the user's editor or prints its path.
func openConfig(cmd *cobra.Command, _ []string) error {
	configPath, err := config.GetConfigFile()
	if err != nil {
		return fmt.Errorf("failed to get config file path: %w", err)
	}

	if printPath, _ := cmd.Flags().GetBool("path"); printPath {
		fmt.Println(configPath)
		return nil
	}

	// Prefer $VISUAL, fall back to $EDITOR
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		return fmt.Errorf("no editor defined: set $VISUAL or $EDITOR environment variable")
	}

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr
	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}
