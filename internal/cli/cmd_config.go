package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tgienger/planner/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and write the team property file",
		Long: `Reads and writes the INI property file holding team members, holidays,
skills and communication settings. The file is created with default
content on first use. Keys are case-insensitive.`,
	}
	cmd.AddCommand(newConfigGetCmd(a))
	cmd.AddCommand(newConfigSetCmd(a))
	cmd.AddCommand(newConfigListCmd(a))
	cmd.AddCommand(newConfigHolidaysCmd(a))
	cmd.AddCommand(newConfigPathCmd(a))
	return cmd
}

func newConfigGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <section> <key>",
		Short: "Print one property value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := a.loadProps()
			if err != nil {
				return err
			}
			v, err := props.Lookup(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func newConfigSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <section> <key> <value>",
		Short: "Set a property, creating the section if needed",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := a.loadProps()
			if err != nil {
				return err
			}
			if err := props.Set(args[0], args[1], args[2]); err != nil {
				return err
			}
			a.logger.Info("property set", "section", args[0], "key", args[1])
			fmt.Fprintf(cmd.OutOrStdout(), "%s.%s = %s\n", args[0], args[1], args[2])
			return nil
		},
	}
}

func newConfigListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [section]",
		Short: "Print every property, or one section",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := a.loadProps()
			if err != nil {
				return err
			}
			sections := props.Sections()
			if len(args) == 1 {
				if props.SectionItems(args[0]) == nil {
					return fmt.Errorf("no section %q in %s", args[0], props.Path())
				}
				sections = args
			}

			out := cmd.OutOrStdout()
			for i, name := range sections {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "[%s]\n", name)
				for _, it := range props.SectionItems(name) {
					fmt.Fprintf(out, "%s = %s\n", it.Key, it.Value)
				}
			}
			return nil
		},
	}
}

func newConfigHolidaysCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "holidays",
		Short: "Print the parsed holiday calendars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := a.loadProps()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, it := range props.SectionItems(config.SectionHolidays) {
				dates, err := props.Holidays(it.Key)
				if err != nil {
					return err
				}
				days := make([]string, len(dates))
				for i, d := range dates {
					days[i] = d.Format("Mon 2006-01-02")
				}
				fmt.Fprintf(out, "%s: %s\n", it.Key, strings.Join(days, ", "))
			}
			return nil
		},
	}
}

func newConfigPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the resolved file locations",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "data dir:   %s\n", a.settings.DataDir)
			fmt.Fprintf(out, "database:   %s\n", a.settings.DBPath)
			fmt.Fprintf(out, "properties: %s\n", a.settings.PropertiesPath)
			fmt.Fprintf(out, "log file:   %s\n", a.settings.LogPath())
		},
	}
}
