package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/harrison/ctxgen/internal/exclusion"
	"github.com/spf13/cobra"
)

// NewExclusionsCommand creates the 'ctxgen exclusions' command group
func NewExclusionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exclusions",
		Short: "Manage the saved exclusion rules",
		Long: `Exclusion rules decide what a scan skips. There are three kinds:

  dirs      directory names, matched against every segment of a path
  files     exact file names
  patterns  glob patterns (*, ?, [seq]) matched against file names`,
	}

	cmd.AddCommand(newExclusionsShowCommand())
	cmd.AddCommand(newExclusionsEditCommand("add", "Add rules of one kind", addRules))
	cmd.AddCommand(newExclusionsEditCommand("remove", "Remove rules of one kind", removeRules))
	cmd.AddCommand(newExclusionsResetCommand())

	return cmd
}

func newExclusionsShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the saved exclusion rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			rules, err := a.rules.Load()
			if err != nil {
				a.log.LogWarn(fmt.Sprintf("Using empty exclusion rules: %v", err))
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(rules)
			}
			printRules(a.stdout, rules)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print the rules as JSON")
	return cmd
}

func printRules(out io.Writer, rules exclusion.RuleSet) {
	if rules.IsEmpty() {
		fmt.Fprintln(out, "No exclusion rules saved")
		return
	}

	sections := []struct {
		title string
		items []string
	}{
		{"Excluded directories", rules.ExcludeDirs},
		{"Excluded files", rules.ExcludeFiles},
		{"Excluded patterns", rules.ExcludePatterns},
	}
	for _, s := range sections {
		fmt.Fprintf(out, "%s:\n", s.title)
		if len(s.items) == 0 {
			fmt.Fprintln(out, "  (none)")
			continue
		}
		for _, item := range s.items {
			fmt.Fprintf(out, "  %s\n", item)
		}
	}
}

type ruleEdit func(rules *exclusion.RuleSet, kind exclusion.RuleKind, values []string) (int, error)

func newExclusionsEditCommand(use, short string, edit ruleEdit) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <dirs|files|patterns> <value>...",
		Short: short,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := exclusion.ParseKind(args[0])
			if err != nil {
				return err
			}
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			rules, err := a.rules.Load()
			if err != nil {
				return fmt.Errorf("refusing to overwrite unreadable rules: %w", err)
			}

			changed, err := edit(&rules, kind, args[1:])
			if err != nil {
				return err
			}
			if changed == 0 {
				fmt.Fprintln(a.stdout, "No changes")
				return nil
			}
			if err := a.rules.Save(rules); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Updated %s: %s\n", kind, strings.Join(ruleList(rules, kind), ", "))
			return nil
		},
	}
}

func addRules(rules *exclusion.RuleSet, kind exclusion.RuleKind, values []string) (int, error) {
	changed := 0
	for _, v := range values {
		added, err := rules.Add(kind, v)
		if err != nil {
			return 0, err
		}
		if added {
			changed++
		}
	}
	return changed, nil
}

func removeRules(rules *exclusion.RuleSet, kind exclusion.RuleKind, values []string) (int, error) {
	changed := 0
	for _, v := range values {
		removed, err := rules.Remove(kind, v)
		if err != nil {
			return 0, err
		}
		if removed {
			changed++
		}
	}
	return changed, nil
}

func ruleList(rules exclusion.RuleSet, kind exclusion.RuleKind) []string {
	switch kind {
	case exclusion.KindDirs:
		return rules.ExcludeDirs
	case exclusion.KindFiles:
		return rules.ExcludeFiles
	}
	return rules.ExcludePatterns
}

func newExclusionsResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Remove every exclusion rule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			if err := a.rules.Save(exclusion.RuleSet{}); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, "Exclusion rules cleared")
			return nil
		},
	}
}
