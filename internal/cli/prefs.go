package cli

import (
	"fmt"
	"sort"

	"github.com/akontos/hackmate/internal/config"
	"github.com/akontos/hackmate/internal/prefs"
	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Manage stored preferences",
	Long: `Inspect and change persisted preferences such as the tracked
repository (repo_url), the default search mode (search_mode), and
notifications.`,
}

var prefsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openPrefs()
		if err != nil {
			return err
		}
		defer store.Close()

		all, err := store.All()
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(all))
		for key := range all {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Printf("%s = %s\n", key, all[key])
		}
		return nil
	},
}

var prefsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one preference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openPrefs()
		if err != nil {
			return err
		}
		defer store.Close()

		value, err := store.Get(args[0], "")
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a preference",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openPrefs()
		if err != nil {
			return err
		}
		defer store.Close()

		return store.Set(args[0], args[1])
	},
}

var prefsUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a preference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openPrefs()
		if err != nil {
			return err
		}
		defer store.Close()

		return store.Delete(args[0])
	},
}

func openPrefs() (*prefs.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return prefs.Open(cfg.DatabasePath())
}

func init() {
	prefsCmd.AddCommand(prefsListCmd, prefsGetCmd, prefsSetCmd, prefsUnsetCmd)
	rootCmd.AddCommand(prefsCmd)
}
