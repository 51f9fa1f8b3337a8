package spreadsheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWrite(t *testing.T) {
	buf, err := Write(Table{
		Sheet:   "Challans",
		Headers: []string{"Challan No", "Vehicle", "Total Hire"},
		Rows: [][]interface{}{
			{"KC1234567890", "MH12AB1234", 11000.0},
			{"KC1234567891", "GJ01XY0001", 570.5},
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Challans")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Challan No", "Vehicle", "Total Hire"}, rows[0])
	assert.Equal(t, "KC1234567891", rows[2][0])
	assert.Equal(t, "570.5", rows[2][2])
}

func TestWriteEmpty(t *testing.T) {
	buf, err := Write(Table{Headers: []string{"A"}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
