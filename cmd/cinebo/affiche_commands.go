package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cinebo/internal/affiche"
)

func newAfficheCommand(ctx *commandContext) *cobra.Command {
	afficheCmd := &cobra.Command{
		Use:   "affiche",
		Short: "Render and manage weekly posters",
	}

	afficheCmd.AddCommand(newAfficheRenderCommand(ctx))
	afficheCmd.AddCommand(newAfficheSaveCommand(ctx))
	afficheCmd.AddCommand(newAfficheExportCommand(ctx))
	afficheCmd.AddCommand(newAfficheListCommand(ctx))

	return afficheCmd
}

func (c *commandContext) afficheService() (*affiche.Service, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	st, err := c.ensureStore()
	if err != nil {
		return nil, err
	}
	return affiche.NewService(st, cfg, c.ensureLogger())
}

func newAfficheRenderCommand(ctx *commandContext) *cobra.Command {
	var layoutFlag, dateFlag, outDir string
	var save bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a poster from a layout file or a stored week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (layoutFlag == "") == (dateFlag == "") {
				return fmt.Errorf("pass exactly one of --layout or --date")
			}

			svc, err := ctx.afficheService()
			if err != nil {
				return err
			}

			var state *affiche.State
			var assets affiche.Assets
			switch {
			case layoutFlag != "":
				state, err = affiche.LoadFile(layoutFlag)
				if err != nil {
					return err
				}
				assets, err = svc.LoadAssets(state)
				if err != nil {
					return err
				}
				if save {
					if err := svc.Save(cmd.Context(), state); err != nil {
						return err
					}
				}
			default:
				date, err := parseDateFlag(dateFlag, "date")
				if err != nil {
					return err
				}
				state, assets, err = svc.Load(cmd.Context(), date)
				if err != nil {
					return err
				}
			}

			pngPath, pdfPath, err := svc.RenderFiles(cmd.Context(), state, assets, outDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, pngPath)
			fmt.Fprintln(out, pdfPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&layoutFlag, "layout", "", "Layout TOML file to render")
	cmd.Flags().StringVar(&dateFlag, "date", "", "Stored week to render (YYYY-MM-DD)")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory (default from configuration)")
	cmd.Flags().BoolVar(&save, "save", false, "Also store the layout and its images")
	return cmd
}

func newAfficheSaveCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <layout.toml>",
		Short: "Store a layout file and its images for later",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.afficheService()
			if err != nil {
				return err
			}
			state, err := affiche.LoadFile(args[0])
			if err != nil {
				return err
			}
			if err := svc.Save(cmd.Context(), state); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored poster week %s (%d films)\n",
				state.StartDate.Format(dateLayout), len(state.Films))
			return nil
		},
	}
	return cmd
}

func newAfficheExportCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export <date>",
		Short: "Write a stored week back out as an editable layout file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.afficheService()
			if err != nil {
				return err
			}
			date, err := parseDateFlag(args[0], "date")
			if err != nil {
				return err
			}
			state, _, err := svc.Load(cmd.Context(), date)
			if err != nil {
				return err
			}

			target := outPath
			if target == "" {
				target = "affiche " + date.Format(dateLayout) + ".toml"
			}
			if err := state.SaveFile(target); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), target)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Destination layout file")
	return cmd
}

func newAfficheListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored poster weeks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.afficheService()
			if err != nil {
				return err
			}
			weeks, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOut {
				dates := make([]string, 0, len(weeks))
				for _, week := range weeks {
					dates = append(dates, week.Format(dateLayout))
				}
				return writeJSON(cmd, dates)
			}

			out := cmd.OutOrStdout()
			if len(weeks) == 0 {
				fmt.Fprintln(out, "No posters stored")
				return nil
			}
			for _, week := range weeks {
				fmt.Fprintln(out, week.Format(dateLayout))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	return cmd
}
