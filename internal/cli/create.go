package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/infodancer/mailpath"
	"github.com/infodancer/mailpath/maildir"
	"github.com/infodancer/mailpath/mbox"
)

func newCreateCmd(a *app) *cobra.Command {
	var kindName string

	cmd := &cobra.Command{
		Use:   "create <path>",
		Short: "Create an empty local mailbox",
		Long: `Create makes an empty mbox file, maildir or MH folder at path and prints the
resolved result. Existing mailboxes are never overwritten.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := mailpath.ParseKind(kindName)
			if err != nil {
				return err
			}
			s, err := a.expand(args[0])
			if err != nil {
				return err
			}

			switch kind {
			case mailpath.Mbox:
				err = mbox.Create(s)
			case mailpath.Maildir, mailpath.MH:
				err = maildir.Create(s, kind)
			default:
				return fmt.Errorf("cannot create %s mailboxes", kind)
			}
			if err != nil {
				return err
			}

			p, err := a.resolve(s)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), a.info(p))
			}
			printSuccess(cmd.OutOrStdout(), fmt.Sprintf("Created %s %s", p.Kind(), p.Canonical()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&kindName, "kind", "k", "maildir", "Mailbox kind: mbox, maildir or mh")
	return cmd
}

func newKindsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the supported mailbox kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			type kindInfo struct {
				Kind  string `json:"kind"`
				Local bool   `json:"local"`
			}

			var kinds []kindInfo
			for _, k := range a.reg.Kinds() {
				b, err := a.reg.Backend(k)
				if err != nil {
					return err
				}
				kinds = append(kinds, kindInfo{Kind: k.String(), Local: b.IsLocal()})
			}

			if a.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), kinds)
			}
			rows := make([][]string, 0, len(kinds))
			for _, k := range kinds {
				probe := "name"
				if k.Local {
					probe = "filesystem"
				}
				rows = append(rows, []string{k.Kind, probe})
			}
			printTable(cmd.OutOrStdout(), []string{"KIND", "PROBE"}, rows)
			return nil
		},
	}
}
