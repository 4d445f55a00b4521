package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change configuration. Engine-relevant keys:

  privacy.store_chat_history    store "chat" documents (default true)
  privacy.store_command_output  store "command-output" documents (default true)
  privacy.anonymize             scrub IPs, emails, hashes, and tokens
                                before storing (default false)
  storage.data_dir              override the data directory`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long:  `Sets a configuration value. "true" and "false" are stored as booleans.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// engineKeys are the settings the engine itself reads; show prints
// their effective values even when unset.
var engineKeys = []string{
	"privacy.store_chat_history",
	"privacy.store_command_output",
	"privacy.anonymize",
	"storage.data_dir",
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Println(headingStyle.Render("Configuration:"))
	keys := append([]string(nil), engineKeys...)
	sort.Strings(keys)
	for _, key := range keys {
		val, ok := configStore.Get(key)
		display := "(default)"
		if ok {
			display = fmt.Sprintf("%v", val)
		}
		cmd.Printf("  %-30s %s\n", key, display)
	}
	if path := configStore.Path(); path != "" {
		cmd.Println()
		cmd.Println(dimStyle.Render("File: " + path))
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	val, ok := configStore.Get(args[0])
	if !ok {
		cmd.Println("(not set)")
		return nil
	}
	cmd.Printf("%v\n", val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}
	key, raw := args[0], args[1]

	var value any = raw
	if b, err := strconv.ParseBool(raw); err == nil {
		value = b
	}

	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	cmd.Printf("Set %s = %v\n", key, value)
	return nil
}
