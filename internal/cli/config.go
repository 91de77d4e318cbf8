package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/gcli/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage gcli properties",
		Long:  "Manage gcli properties. Names are SECTION/NAME; a bare NAME is in the core section.\n\n" + propertyHelp(),
	}

	cmd.AddCommand(newConfigSetCmd(a))
	cmd.AddCommand(newConfigGetCmd(a))
	cmd.AddCommand(newConfigListCmd(a))
	cmd.AddCommand(newConfigUnsetCmd(a))

	return cmd
}

func newConfigSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set PROPERTY VALUE",
		Short: "Set a property",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.store.Set(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated property [%s].\n", p)
			return nil
		},
	}
}

func newConfigGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get PROPERTY",
		Short: "Print the value of a property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.store.Get(args[0])
			if err != nil {
				return err
			}
			if !s.Set {
				fmt.Fprintf(cmd.ErrOrStderr(), "(unset)\n")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.Value)
			return nil
		},
	}
}

func newConfigListCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List properties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := a.store.List()

			if a.opts.format == "json" || a.opts.format == "yaml" {
				doc := map[string]map[string]string{}
				for _, s := range settings {
					if !s.Set && !all {
						continue
					}
					if doc[s.Property.Section] == nil {
						doc[s.Property.Section] = map[string]string{}
					}
					doc[s.Property.Section][s.Property.Name] = s.Value
				}
				if a.opts.format == "json" {
					return printJSON(cmd.OutOrStdout(), doc)
				}
				return printYAML(cmd.OutOrStdout(), doc)
			}

			section := ""
			for _, s := range settings {
				if !s.Set && !all {
					continue
				}
				if s.Property.Section != section {
					section = s.Property.Section
					fmt.Fprintf(cmd.OutOrStdout(), "[%s]\n", section)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", s.Property.Name, s.Value)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include unset properties")
	return cmd
}

func newConfigUnsetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unset PROPERTY",
		Short: "Remove a property from the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.store.Unset(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unset property [%s].\n", p)
			return nil
		},
	}
}

// propertyHelp lists every property for `gcli config --help`.
func propertyHelp() string {
	help := "Available properties:\n"
	for _, p := range config.All() {
		help += "  " + p.Describe() + "\n"
	}
	return help
}
