package notion

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/standort-labs/standort-cli/internal/store"
)

// PublishRun creates one page per company score in the target database.
// Pages that fail to create are reported but do not stop the remaining
// scores; the returned count is the number of pages created.
func PublishRun(ctx context.Context, c Client, dbID string, run *store.Run, scores []store.CompanyScore) (int, error) {
	if len(scores) == 0 {
		return 0, eris.Errorf("notion: run %s has no scores to publish", run.ID)
	}

	var published int
	var firstErr error
	for _, s := range scores {
		if _, err := c.CreatePage(ctx, scorePageRequest(dbID, run, s)); err != nil {
			zap.L().Warn("notion: page create failed",
				zap.String("run_id", run.ID),
				zap.String("company", s.Company),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		published++
	}

	zap.L().Info("notion: run published",
		zap.String("run_id", run.ID),
		zap.String("database", dbID),
		zap.Int("published", published),
		zap.Int("failed", len(scores)-published),
	)
	if published == 0 {
		return 0, eris.Wrapf(firstErr, "notion: publish run %s", run.ID)
	}
	return published, nil
}

func scorePageRequest(dbID string, run *store.Run, s store.CompanyScore) *notionapi.PageCreateRequest {
	scoredAt := run.StartedAt
	if run.CompletedAt != nil {
		scoredAt = *run.CompletedAt
	}
	date := notionapi.Date(scoredAt)

	return &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(dbID),
		},
		Properties: notionapi.Properties{
			"Company": notionapi.TitleProperty{
				Title: []notionapi.RichText{
					{Text: &notionapi.Text{Content: s.Company}},
				},
			},
			"Location": notionapi.RichTextProperty{
				RichText: []notionapi.RichText{
					{Text: &notionapi.Text{Content: s.Location}},
				},
			},
			"Location Score": notionapi.NumberProperty{Number: s.LocationScore},
			"Company Score":  notionapi.NumberProperty{Number: s.CompanyScore},
			"Overall Score":  notionapi.NumberProperty{Number: s.OverallScore},
			"Run": notionapi.RichTextProperty{
				RichText: []notionapi.RichText{
					{Text: &notionapi.Text{Content: run.ID}},
				},
			},
			"Scored At": notionapi.DateProperty{
				Date: &notionapi.DateObject{Start: &date},
			},
		},
	}
}
