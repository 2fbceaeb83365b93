package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// NewInstructionsCommand creates the 'ctxgen instructions' command group
func NewInstructionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instructions",
		Short: "Manage the custom instructions placed at the top of every context",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the saved instructions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			instructions, err := a.instructions.Load()
			if err != nil {
				return err
			}
			if instructions == "" {
				fmt.Fprintln(a.stderr, "No custom instructions saved")
				return nil
			}
			fmt.Fprintln(a.stdout, instructions)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set [text...]",
		Short: "Save instructions from the arguments, or from stdin when none are given",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read instructions: %w", err)
				}
				text = strings.TrimRight(string(data), "\r\n")
			}

			if err := a.instructions.Save(text); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, "Custom instructions saved successfully!")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the saved instructions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			if err := a.instructions.Save(""); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, "Custom instructions cleared")
			return nil
		},
	})

	return cmd
}
