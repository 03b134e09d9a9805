package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rpattn/sfs/internal/domain"
)

func sampleTable() Table {
	return Table{
		Name: "people",
		Rows: []domain.Row{
			{"id": int64(1), "name": "Ann, Lee", "joined": time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)},
			{"id": int64(2), "name": "Bob", "joined": nil},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestWrite_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, sampleTable()))
	assert.Equal(t, "id,joined,name\n1,2020-01-02T03:04:05Z,\"Ann, Lee\"\n2,,Bob\n", buf.String())
}

func TestWrite_CSVFixedColumns(t *testing.T) {
	table := sampleTable()
	table.Columns = []string{"name", "id"}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, table))
	assert.Equal(t, "name,id\n\"Ann, Lee\",1\nBob,2\n", buf.String())
}

func TestWrite_XLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, sampleTable()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"people"}, f.GetSheetList())
	rows, err := f.GetRows("people")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"id", "joined", "name"}, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "Ann, Lee", rows[1][2])
	assert.Equal(t, "Bob", rows[2][2])
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "staff-list-page-2.xlsx", FileName("Staff List", 2, FormatXLSX))
	assert.Equal(t, "export-page-1.csv", FileName("  ", 1, FormatCSV))
}
