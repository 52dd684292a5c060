package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"cinebo/internal/store"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and change bookkeeping settings",
		Long: "Settings drive week numbering, ticket numbering, and the rates on " +
			"settlement reports. Keys: " + strings.Join(knownSettingKeys(), ", ") + ".",
	}

	settingsCmd.AddCommand(newSettingsListCommand(ctx))
	settingsCmd.AddCommand(newSettingsSetCommand(ctx))

	return settingsCmd
}

func knownSettingKeys() []string {
	return []string{
		store.SettingWeekStartWeekday,
		store.SettingWeekCounter,
		store.SettingBTWRate,
		store.SettingAuteursRate,
		store.SettingTicketCounterAdult,
		store.SettingTicketCounterChild,
	}
}

func newSettingsListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show all settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			// Reading through the typed accessors seeds any missing
			// defaults before listing.
			if _, err := st.WeekStartWeekday(cmd.Context()); err != nil {
				return err
			}
			if _, err := st.FloatSetting(cmd.Context(), store.SettingBTWRate, store.DefaultBTWRate); err != nil {
				return err
			}
			if _, err := st.FloatSetting(cmd.Context(), store.SettingAuteursRate, store.DefaultAuteursRate); err != nil {
				return err
			}
			for key, def := range map[string]int{
				store.SettingWeekCounter:        store.DefaultWeekCounter,
				store.SettingTicketCounterAdult: store.DefaultTicketCounterAdult,
				store.SettingTicketCounterChild: store.DefaultTicketCounterChild,
			} {
				if _, err := st.IntSetting(cmd.Context(), key, def); err != nil {
					return err
				}
			}

			settings, err := st.AllSettings(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, settings)
			}

			keys := make([]string, 0, len(settings))
			for key := range settings {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			var rows [][]string
			for _, key := range keys {
				rows = append(rows, []string{key, settings[key]})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]column{{title: "Sleutel"}, {title: "Waarde"}}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	return cmd
}

func newSettingsSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <sleutel> <waarde>",
		Short: "Change a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			key := strings.TrimSpace(args[0])
			known := false
			for _, candidate := range knownSettingKeys() {
				if candidate == key {
					known = true
					break
				}
			}
			if !known {
				return fmt.Errorf("unknown setting %q; known keys: %s", key, strings.Join(knownSettingKeys(), ", "))
			}

			if err := st.SetSetting(cmd.Context(), key, strings.TrimSpace(args[1])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, strings.TrimSpace(args[1]))
			return nil
		},
	}
}
