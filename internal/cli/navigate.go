package cli

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

func newCompareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <a> <b>",
		Short: "Compare two mailboxes",
		Long: `Compare resolves both paths and prints -1, 0 or 1 as a sorts before, equal to
or after b. Paths of different kinds sort by kind.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			y, err := a.resolve(args[1])
			if err != nil {
				return err
			}
			result := a.reg.Compare(x, y)

			if a.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), map[string]any{
					"a":      x.Canonical(),
					"b":      y.Canonical(),
					"result": result,
				})
			}
			printLine(cmd.OutOrStdout(), strconv.Itoa(result))
			return nil
		},
	}
}

func newParentCmd(a *app) *cobra.Command {
	var delim string

	cmd := &cobra.Command{
		Use:   "parent <path>",
		Short: "Print the parent mailbox of a path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sep rune
			if delim != "" {
				if utf8.RuneCountInString(delim) != 1 {
					return fmt.Errorf("--delim must be a single character, got %q", delim)
				}
				sep, _ = utf8.DecodeRuneInString(delim)
			}

			p, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			parent, err := a.reg.Parent(p, sep)
			if err != nil {
				return err
			}
			// Finish resolving when the parent exists; otherwise report it tidied.
			resolved := parent.Clone()
			if err := a.reg.ResolvePath(resolved, nil); err == nil {
				parent = resolved
			}

			if a.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), a.info(parent))
			}
			printPath(cmd.OutOrStdout(), a.info(parent))
			return nil
		},
	}
	cmd.Flags().StringVar(&delim, "delim", "", "Hierarchy delimiter for remote mailboxes")
	return cmd
}

func newPrettyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pretty <path>",
		Short: "Abbreviate a mailbox path for display",
		Long: `Pretty resolves a path and abbreviates it relative to the mail folder (as +name)
or the home directory (as ~/name).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			s, abbreviated, err := a.reg.Pretty(p, a.prettyContext())
			if err != nil {
				return err
			}

			if a.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), map[string]any{
					"canonical":   p.Canonical(),
					"pretty":      s,
					"abbreviated": abbreviated,
				})
			}
			printLine(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func newExpandCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "expand <shortcut>",
		Short: "Expand +, = and ~ shortcuts without resolving",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.reg.Expand(args[0], a.prettyContext())
			if a.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), map[string]string{"expanded": s})
			}
			printLine(cmd.OutOrStdout(), s)
			return nil
		},
	}
}
