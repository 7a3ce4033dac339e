package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"bookshelf/internal/config"
)

func newRootCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "bookshelf",
		Short: "A 3D bookshelf for a personal book collection",
		Long: `Bookshelf places the books of a collection on a 3D shelf, colours each book from its
cover, and lets you turn the shelf and pick a book to see its details.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default "+config.DefaultPath+")")

	load := func() (*config.Config, error) { return config.Load(cfgPath) }
	save := func(cfg *config.Config) error { return config.Save(cfgPath, cfg) }
	cmd.AddCommand(newRunCmd(load, save))
	cmd.AddCommand(newLayoutCmd(load))
	cmd.AddCommand(newConfigCmd(load))
	return cmd
}
