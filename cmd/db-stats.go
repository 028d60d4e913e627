package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/jon4hz/familytravel/internal/config"
	"github.com/spf13/cobra"
)

var dbStatsCmd = &cobra.Command{
	Use:   "db-stats",
	Short: "Show database statistics",
	Long:  `Display the number of users, countries and recorded visits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := openDatabase(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close() //nolint: errcheck

		stats, err := db.GetStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get database stats: %w", err)
		}

		fmt.Println("Database Statistics:")
		fmt.Printf("Driver: %s\n", cfg.Database.Driver)
		fmt.Printf("Users: %s\n", humanize.Comma(stats.Users))
		fmt.Printf("Countries: %s\n", humanize.Comma(stats.Countries))
		fmt.Printf("Visits: %s\n", humanize.Comma(stats.Visits))

		if stats.TopUser != nil {
			fmt.Printf("Most Travelled: %s (%s)\n",
				stats.TopUser.Name, english.Plural(int(stats.TopUserVisits), "country", "countries"))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbStatsCmd)
}
