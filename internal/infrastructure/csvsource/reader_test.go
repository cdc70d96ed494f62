package csvsource

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ReviewAnalyzer/internal/source"
)

const sampleCSV = `review_text,rating,date,app_id,source
Great app!,5,2023-10-27 10:00:00,com.test.app1,Google Play
Very slow.,1,2023-10-27 11:00:00,com.test.app1,Google Play
Needs more features.,not-a-number,2023-10-27 12:00:00,,
`

func TestFetchReadsRawCSV(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "Test_App_1_raw.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	reader := NewReader(nil)
	req := source.Request{
		SourceName: "Google Play",
		Options:    map[string]string{"dir": dir},
		Apps:       []source.App{{EntityID: "com.test.app1", URL: "Test_App_1_raw.csv"}},
	}

	records, err := reader.Fetch(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "Great app!", records[0].Text)
	assert.Equal(t, 5, records[0].Rating)
	assert.Equal(t, "2023-10-27 10:00:00", records[0].PostedAt)
	assert.Equal(t, "com.test.app1", records[0].EntityID)

	// Bad rating cell stays zero; blank app_id/source fall back to config.
	assert.Equal(t, 0, records[2].Rating)
	assert.Equal(t, "com.test.app1", records[2].EntityID)
	assert.Equal(t, "Google Play", records[2].Source)
}

func TestFetchSkipsMissingFiles(t *testing.T) {
	t.Parallel()

	reader := NewReader(nil)
	req := source.Request{
		SourceName: "Google Play",
		Options:    map[string]string{"dir": t.TempDir()},
		Apps:       []source.App{{EntityID: "com.test.app2", URL: "absent.csv"}},
	}

	records, err := reader.Fetch(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, records)
}
