package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/standort-labs/standort-cli/pkg/notion"
)

var publishCmd = &cobra.Command{
	Use:   "publish <run-id>",
	Short: "Publish a run's company scores to Notion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.Notion.Token == "" {
			return eris.New("publish: notion.token is not configured")
		}
		if cfg.Notion.ScoreDB == "" {
			return eris.New("publish: notion.score_db is not configured")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "publish")
		}
		scores, err := st.ListScores(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "publish")
		}

		client := notion.NewClient(cfg.Notion.Token)
		published, err := notion.PublishRun(ctx, client, cfg.Notion.ScoreDB, run, scores)
		if err != nil {
			return err
		}

		fmt.Printf("Published %d of %d scores to Notion.\n", published, len(scores))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
}
