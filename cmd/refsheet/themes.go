package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"refsheet/internal/themes"
	"refsheet/internal/ui"
	"refsheet/internal/zotero"
)

var themesCmd = &cobra.Command{
	Use:     "themes",
	GroupID: "inspect",
	Short:   "List the theme options seen so far",
	Long: `Print the theme options collected from imported items, in the order
they were first seen. These are the values offered for the sheet's Theme
column.

With --remote, list every tag in the library instead (status tags and the
marker tag included), straight from the API.`,
	RunE: runThemes,
}

func init() {
	themesCmd.Flags().Bool("remote", false, "List every library tag instead")
	rootCmd.AddCommand(themesCmd)
}

func runThemes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if remote, _ := cmd.Flags().GetBool("remote"); remote {
		if err := cfg.Validate(); err != nil {
			return err
		}
		verbose, _ := cmd.Flags().GetBool("verbose")
		client, err := zotero.New(zotero.Config{
			BaseURL: cfg.Library.BaseURL,
			UserID:  cfg.Library.UserID,
			APIKey:  cfg.Library.APIKey,
			Logger:  buildLogger(cfg, verbose),
		})
		if err != nil {
			return err
		}
		tags, err := client.Tags(cmd.Context())
		if err != nil {
			return err
		}
		for _, tag := range tags {
			fmt.Println(tag.Tag)
		}
		return nil
	}

	list, err := themes.NewStore(cfg.ThemesPath()).Load()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println(ui.Muted.Render("No theme options recorded yet; run 'refsheet import'."))
		return nil
	}
	for _, name := range list {
		fmt.Println(name)
	}
	return nil
}
