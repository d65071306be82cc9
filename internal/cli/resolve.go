package cli

import (
	"github.com/spf13/cobra"

	"github.com/infodancer/mailpath"
)

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [path...]",
		Short: "Resolve mailbox paths to their canonical form",
		Long: `Resolve tidies, probes and canonicalizes each path and prints its kind and
canonical form. With no arguments the configured spool mailbox is resolved.

Paths may start with + or = (the mail folder) or ~ (the home directory).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{""}
			}

			infos := make([]pathInfo, 0, len(args))
			for _, raw := range args {
				p, err := a.resolve(raw)
				if err != nil {
					return err
				}
				infos = append(infos, a.info(p))
			}

			if a.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), infos)
			}
			for _, info := range infos {
				printPath(cmd.OutOrStdout(), info)
			}
			return nil
		},
	}
}

func newTidyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tidy <path>",
		Short: "Normalize a path without touching the filesystem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.tidy(args[0])
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), a.info(p))
			}
			printLine(cmd.OutOrStdout(), p.Original())
			return nil
		},
	}
}

func newProbeCmd(a *app) *cobra.Command {
	var as string

	cmd := &cobra.Command{
		Use:   "probe <path>",
		Short: "Detect the mailbox kind of a path",
		Long: `Probe tidies a path and asks each backend whether it recognizes it.
With --as, only the named kind's backend is asked.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.tidy(args[0])
			if err != nil {
				return err
			}
			if as != "" {
				kind, err := mailpath.ParseKind(as)
				if err != nil {
					return err
				}
				if err := a.reg.ProbeAs(p, kind, nil); err != nil {
					return err
				}
			} else if err := a.reg.Probe(p, nil); err != nil {
				return err
			}

			if a.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), a.info(p))
			}
			printLine(cmd.OutOrStdout(), p.Kind().String())
			return nil
		},
	}
	cmd.Flags().StringVar(&as, "as", "", "Only check for this mailbox kind")
	return cmd
}

func newCanonCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "canon <path>",
		Short: "Print the canonical form of a path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), a.info(p))
			}
			printLine(cmd.OutOrStdout(), p.Canonical())
			return nil
		},
	}
}

func newKeyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "key <path>",
		Short: "Print the cache key of a mailbox",
		Long:  `Key prints a stable digest of the mailbox's kind and canonical form.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			key, err := p.Key()
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), map[string]string{
					"canonical": p.Canonical(),
					"key":       key,
				})
			}
			printLine(cmd.OutOrStdout(), key)
			return nil
		},
	}
}
