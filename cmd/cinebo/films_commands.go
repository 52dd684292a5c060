package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cinebo/internal/store"
)

func newFilmsCommand(ctx *commandContext) *cobra.Command {
	filmsCmd := &cobra.Command{
		Use:   "films",
		Short: "Manage the film register",
	}

	filmsCmd.AddCommand(newFilmsListCommand(ctx))
	filmsCmd.AddCommand(newFilmsAddCommand(ctx))
	filmsCmd.AddCommand(newFilmsSetCommand(ctx))

	return filmsCmd
}

func newFilmsListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered films",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			films, err := st.ListFilms(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, films)
			}

			if len(films) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No films registered")
				return nil
			}

			cols := []column{
				{title: "ID", right: true},
				{title: "Titel"},
				{title: "MaccsBox titel"},
				{title: "Distributeur"},
				{title: "Land"},
			}
			var rows [][]string
			for _, film := range films {
				rows = append(rows, []string{
					fmt.Sprint(film.ID),
					film.InternalTitle,
					film.MaccsTitle,
					film.Distributor,
					film.Country,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(cols, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	return cmd
}

func newFilmsAddCommand(ctx *commandContext) *cobra.Command {
	var maccsTitle, distributor, country string

	cmd := &cobra.Command{
		Use:   "add <titel>",
		Short: "Register a film",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			title := strings.TrimSpace(args[0])
			if title == "" {
				return fmt.Errorf("film title is required")
			}

			existing, err := st.FilmByInternalTitle(cmd.Context(), title)
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf("film %q already exists (id %d)", title, existing.ID)
			}

			if strings.TrimSpace(maccsTitle) == "" {
				maccsTitle = title
			}
			film, err := st.CreateFilm(cmd.Context(), store.Film{
				InternalTitle: title,
				MaccsTitle:    maccsTitle,
				Distributor:   distributor,
				Country:       country,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Registered %q (id %d)\n", film.InternalTitle, film.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&maccsTitle, "maccs-title", "", "Official MaccsBox title (defaults to the internal title)")
	cmd.Flags().StringVar(&distributor, "distributor", "", "Distributor printed on settlement reports")
	cmd.Flags().StringVar(&country, "country", "", "Country of origin")
	return cmd
}

func newFilmsSetCommand(ctx *commandContext) *cobra.Command {
	var maccsTitle, distributor, country string

	cmd := &cobra.Command{
		Use:   "set <titel>",
		Short: "Update a registered film",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			film, err := st.FilmByInternalTitle(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			if film == nil {
				return fmt.Errorf("film %q is not registered", args[0])
			}

			changed := false
			if cmd.Flags().Changed("maccs-title") {
				film.MaccsTitle = maccsTitle
				changed = true
			}
			if cmd.Flags().Changed("distributor") {
				film.Distributor = distributor
				changed = true
			}
			if cmd.Flags().Changed("country") {
				film.Country = country
				changed = true
			}
			if !changed {
				return fmt.Errorf("nothing to update; pass --maccs-title, --distributor, or --country")
			}

			if err := st.UpdateFilm(cmd.Context(), film); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %q\n", film.InternalTitle)
			return nil
		},
	}

	cmd.Flags().StringVar(&maccsTitle, "maccs-title", "", "Official MaccsBox title")
	cmd.Flags().StringVar(&distributor, "distributor", "", "Distributor printed on settlement reports")
	cmd.Flags().StringVar(&country, "country", "", "Country of origin")
	return cmd
}
