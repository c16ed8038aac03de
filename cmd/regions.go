package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var regionsCmd = &cobra.Command{
	Use:   "regions <name>",
	Short: "Look up a region's transit-quality grade",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := loadResolver(cmd.Context())
		if err != nil {
			return err
		}

		grade, mean, err := resolver.Grade(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s: grade %s (mean score %.2f)\n", args[0], grade, mean)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(regionsCmd)
}
