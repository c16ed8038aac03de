package notion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standort-labs/standort-cli/internal/store"
)

type fakeClient struct {
	created []*notionapi.PageCreateRequest
	failFor map[string]error
}

func (f *fakeClient) CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	title := req.Properties["Company"].(notionapi.TitleProperty)
	name := title.Title[0].Text.Content
	if err := f.failFor[name]; err != nil {
		return nil, err
	}
	f.created = append(f.created, req)
	return &notionapi.Page{}, nil
}

func (f *fakeClient) QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	return &notionapi.DatabaseQueryResponse{}, nil
}

func testRunAndScores() (*store.Run, []store.CompanyScore) {
	completed := time.Date(2026, 8, 27, 15, 0, 0, 0, time.UTC)
	run := &store.Run{
		ID:          "run-1",
		Status:      store.StatusComplete,
		StartedAt:   completed.Add(-time.Minute),
		CompletedAt: &completed,
	}
	scores := []store.CompanyScore{
		{RunID: "run-1", Company: "Acme AG", Location: "Zurich", LocationScore: 3.6, CompanyScore: 4.4, OverallScore: 4.0},
		{RunID: "run-1", Company: "Beta GmbH", Location: "Bern", LocationScore: 3.0, CompanyScore: 3.0, OverallScore: 3.0},
	}
	return run, scores
}

func TestPublishRunCreatesPagePerScore(t *testing.T) {
	c := &fakeClient{}
	run, scores := testRunAndScores()

	n, err := PublishRun(context.Background(), c, "db-1", run, scores)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, c.created, 2)

	req := c.created[0]
	assert.Equal(t, notionapi.DatabaseID("db-1"), req.Parent.DatabaseID)

	overall := req.Properties["Overall Score"].(notionapi.NumberProperty)
	assert.Equal(t, 4.0, overall.Number)

	runProp := req.Properties["Run"].(notionapi.RichTextProperty)
	assert.Equal(t, "run-1", runProp.RichText[0].Text.Content)
}

func TestPublishRunContinuesPastFailures(t *testing.T) {
	c := &fakeClient{failFor: map[string]error{"Acme AG": errors.New("conflict")}}
	run, scores := testRunAndScores()

	n, err := PublishRun(context.Background(), c, "db-1", run, scores)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, c.created, 1)
}

func TestPublishRunAllFailed(t *testing.T) {
	c := &fakeClient{failFor: map[string]error{
		"Acme AG":   errors.New("conflict"),
		"Beta GmbH": errors.New("conflict"),
	}}
	run, scores := testRunAndScores()

	_, err := PublishRun(context.Background(), c, "db-1", run, scores)
	require.Error(t, err)
}

func TestPublishRunNoScores(t *testing.T) {
	run, _ := testRunAndScores()

	_, err := PublishRun(context.Background(), &fakeClient{}, "db-1", run, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scores")
}
