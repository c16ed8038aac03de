package fetcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	input := "gemeinde,bfs_nummer,mean_score\nZurich,261,4.8\nBern,351,4.2\n"

	rows, err := ReadCSV(context.Background(), strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"gemeinde", "bfs_nummer", "mean_score"}, rows[0])
	assert.Equal(t, []string{"Bern", "351", "4.2"}, rows[2])
}

func TestStreamCSVHeader(t *testing.T) {
	input := "Name,E,N\nZuerich HB,2683088,1248062\n"

	headerCh := make(chan []string, 1)
	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{
		HasHeader: true,
		HeaderCh:  headerCh,
	})

	var rows [][]string
	for row := range rowCh {
		rows = append(rows, row)
	}
	require.NoError(t, <-errCh)

	assert.Equal(t, []string{"Name", "E", "N"}, <-headerCh)
	require.Len(t, rows, 1)
	assert.Equal(t, "Zuerich HB", rows[0][0])
}

func TestReadCSVTrimSpaceAndDelimiter(t *testing.T) {
	input := "Zurich ; 4.8 \nBern ; 4.2 \n"

	rows, err := ReadCSV(context.Background(), strings.NewReader(input), CSVOptions{
		Delimiter: ';',
		TrimSpace: true,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Zurich", "4.8"}, rows[0])
}

func TestReadCSVMalformed(t *testing.T) {
	input := "a,\"unterminated\n"

	_, err := ReadCSV(context.Background(), strings.NewReader(input), CSVOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv read row")
}

func TestStreamCSVCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rowCh, errCh := StreamCSV(ctx, strings.NewReader("a,b\nc,d\n"), CSVOptions{})
	for range rowCh {
	}
	assert.Error(t, <-errCh)
}
