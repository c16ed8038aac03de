package main

import (
	"fmt"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var stopsCmd = &cobra.Command{
	Use:   "stops <lat> <lon>",
	Short: "Find the nearest transit stop to a coordinate",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return eris.Wrapf(err, "stops: parse latitude %q", args[0])
		}
		lon, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return eris.Wrapf(err, "stops: parse longitude %q", args[1])
		}

		index, err := loadStops(cmd.Context())
		if err != nil {
			return err
		}

		stop, dist, err := index.Nearest(lat, lon)
		if err != nil {
			return err
		}

		fmt.Printf("%s (%.0f m)\n", stop.Name, dist)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stopsCmd)
}
