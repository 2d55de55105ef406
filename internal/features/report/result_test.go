package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jobsBody = `{
	"jobs": [
		{"job_number": "J-100", "status": "Open", "total": 250.5, "client": {"name": "Acme"}},
		{"job_number": "J-101", "status": "Closed", "total": 90}
	],
	"interface": {
		"filter_words": {"status": ["Open", "Closed"], "area": ["North", ""]},
		"tag_words": ["vip"],
		"max_pages": "3",
		"rows_start": 1,
		"rows_end": 2,
		"rows_all": 42,
		"min_date": "2024-06-01 00:00:00",
		"max_date": "2024-06-30T23:59:59.999Z"
	},
	"permissions": {"can_export": true},
	"dashboard": {"revenue": 340.5}
}`

func TestParseResult(t *testing.T) {
	res, err := ParseResult([]byte(jobsBody), "jobs", testNow, time.UTC)
	require.NoError(t, err)

	require.Len(t, res.Rows, 2)
	assert.Equal(t, "J-100", res.Rows[0]["job_number"])
	assert.Equal(t, map[string]any{"name": "Acme"}, res.Rows[0]["client"])

	meta := res.Interface
	assert.Equal(t, 3, meta.MaxPages)
	assert.Equal(t, 1, meta.RowsStart)
	assert.Equal(t, 2, meta.RowsEnd)
	assert.Equal(t, 42, meta.RowsAll)
	assert.Equal(t, []string{"Open", "Closed"}, meta.FilterWords["status"])
	assert.Equal(t, []string{"North"}, meta.FilterWords["area"])
	assert.Equal(t, []string{"vip"}, meta.TagWords)
	require.NotNil(t, meta.MinDate)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), *meta.MinDate)
	require.NotNil(t, meta.MaxDate)
	assert.Equal(t, 30, meta.MaxDate.Day())

	assert.Equal(t, true, res.Permissions["can_export"])
	assert.Equal(t, 340.5, res.Dashboard["revenue"])
	assert.Equal(t, testNow, res.FetchedAt)
}

func TestParseResultMissingRowsIsEmpty(t *testing.T) {
	res, err := ParseResult([]byte(`{"interface": {"max_pages": 0}}`), "calls", testNow, time.UTC)
	require.NoError(t, err)
	assert.NotNil(t, res.Rows)
	assert.Empty(t, res.Rows)
	assert.Nil(t, res.Interface.MinDate)
	assert.Empty(t, res.Interface.FilterWords)
}

func TestParseResultRejectsMalformedBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>502</html>`},
		{"no interface", `{"calls": []}`},
		{"rows not objects", `{"calls": [1, 2], "interface": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResult([]byte(tt.body), "calls", testNow, time.UTC)
			assert.Error(t, err)
		})
	}
}

func TestParseResultRowsKeyWithUnderscore(t *testing.T) {
	res, err := ParseResult([]byte(`{"phone_numbers": [{"phone": "+15550100"}], "interface": {}}`), "phone_numbers", testNow, time.UTC)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "+15550100", res.Rows[0]["phone"])
}

func TestParseResultReadsZonelessDatesInUserZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	body := `{"interface": {"min_date": "2024-06-04", "max_date": "2024-06-10 23:59:59", "rows_all": 0}}`
	res, err := ParseResult([]byte(body), "calls", testNow, ny)
	require.NoError(t, err)

	require.NotNil(t, res.Interface.MinDate)
	assert.Equal(t, time.Date(2024, 6, 4, 0, 0, 0, 0, ny), *res.Interface.MinDate)
	require.NotNil(t, res.Interface.MaxDate)
	assert.Equal(t, time.Date(2024, 6, 10, 23, 59, 59, 0, ny), *res.Interface.MaxDate)

	res, err = ParseResult([]byte(`{"interface": {"min_date": "2024-06-04T00:00:00Z"}}`), "calls", testNow, ny)
	require.NoError(t, err)
	assert.True(t, res.Interface.MinDate.Equal(time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC)))
}
