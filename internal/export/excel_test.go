package export

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var sampleTable = Table{
	Title:   "categories",
	Headers: []string{"Name", "Status"},
	Rows: [][]string{
		{"Beverages", "active"},
		{"Snacks", "active"},
		{"Seasonal", "archived"},
	},
}

func TestBuildXLSX(t *testing.T) {
	data, err := BuildXLSX(sampleTable)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)

	// header plus one row per record
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Name", "Status"}, rows[0])
	assert.Equal(t, []string{"Beverages", "active"}, rows[1])
	assert.Equal(t, []string{"Seasonal", "archived"}, rows[3])
}

func TestBuildXLSXEmptyTable(t *testing.T) {
	data, err := BuildXLSX(Table{Headers: []string{"Name"}, Rows: nil})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestBuildPDF(t *testing.T) {
	data, err := BuildPDF(sampleTable)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestFilename(t *testing.T) {
	name := Filename("categories", "xlsx")
	assert.Regexp(t, regexp.MustCompile(`^categories-\d{8}-\d{6}\.xlsx$`), name)
}
