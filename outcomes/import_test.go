package outcomes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	data := strings.Join([]string{
		"age,gender,employment_assistance,life_stabilization,success_rate",
		"30,1,1,0,45",
		"30,1,0,1,35",
		"42,2,0,0,28.5",
	}, "\n")

	rows, report, err := Parse("outcomes.csv", strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 3, report.Imported)
	assert.Equal(t, 0, report.Skipped)
	require.Len(t, rows, 3)

	assert.Equal(t, 30, rows[0].Age)
	assert.Equal(t, uint8(1), rows[0].Interventions)
	assert.Equal(t, 45.0, rows[0].SuccessRate)

	assert.Equal(t, uint8(2), rows[1].Interventions)
	assert.Equal(t, uint8(0), rows[2].Interventions)
	assert.Equal(t, 28.5, rows[2].SuccessRate)
}

func TestParseCSVHeaderOrderDoesNotMatter(t *testing.T) {
	data := strings.Join([]string{
		"success_rate, Age ,enhanced_referrals",
		"61,55,1",
	}, "\n")

	rows, _, err := Parse("outcomes.csv", strings.NewReader(data))
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, 55, rows[0].Age)
	assert.Equal(t, uint8(1<<6), rows[0].Interventions)
	assert.Equal(t, 61.0, rows[0].SuccessRate)
}

func TestParseSkipsMalformedRows(t *testing.T) {
	data := strings.Join([]string{
		"age,success_rate",
		"30,45",
		"not-a-number,50",
		"31,over-9000",
		"29,150", // out of range
		"40,70",
	}, "\n")

	rows, report, err := Parse("outcomes.csv", strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 3, report.Skipped)
	assert.Len(t, rows, 2)
}

func TestParseRejectsAllMalformed(t *testing.T) {
	data := strings.Join([]string{
		"age,success_rate",
		"x,y",
	}, "\n")

	_, report, err := Parse("outcomes.csv", strings.NewReader(data))
	assert.Error(t, err)
	assert.Equal(t, 1, report.Skipped)
}

func TestParseRequiresSuccessRateColumn(t *testing.T) {
	data := "age,gender\n30,1"
	_, _, err := Parse("outcomes.csv", strings.NewReader(data))
	assert.ErrorContains(t, err, "success_rate")
}

func TestParseRejectsUnknownExtension(t *testing.T) {
	_, _, err := Parse("outcomes.pdf", strings.NewReader(""))
	assert.ErrorContains(t, err, "unsupported file type")
}

func TestParseEmptyFile(t *testing.T) {
	_, _, err := Parse("outcomes.csv", strings.NewReader("age,success_rate\n"))
	assert.ErrorContains(t, err, "no data rows")
}
