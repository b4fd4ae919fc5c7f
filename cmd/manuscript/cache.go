package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/audiobooksmith/manuscript/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the analysis cache",
}

var cacheKeyCmd = &cobra.Command{
	Use:   "key <file>",
	Short: "Print the content cache key for a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := cache.KeyFor(args[0])
		if err != nil {
			return err
		}
		fmt.Println(key)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheKeyCmd)
}
