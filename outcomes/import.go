// Package outcomes parses bulk uploads of the intervention outcome dataset.
// Case workers replace the whole table periodically from a .csv or .xlsx
// export; columns are matched by header name so the file's column order does
// not matter.
package outcomes

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"case-management-tool/models"

	"github.com/xuri/excelize/v2"
)

// Report summarizes an import: how many rows parsed and how many were
// skipped as malformed.
type Report struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Parse reads an outcome dataset from r, choosing the format by the file
// extension. An upload yielding zero valid rows is an error.
func Parse(filename string, r io.Reader) ([]models.InterventionOutcome, Report, error) {
	var (
		rows [][]string
		err  error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		rows, err = readCSV(r)
	case ".xlsx":
		rows, err = readXLSX(r)
	default:
		return nil, Report{}, fmt.Errorf("unsupported file type %q (want .csv or .xlsx)", filepath.Ext(filename))
	}
	if err != nil {
		return nil, Report{}, err
	}

	return parseRows(rows)
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return rows, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetList := f.GetSheetList()
	if len(sheetList) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	rows, err := f.GetRows(sheetList[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return rows, nil
}

func parseRows(rows [][]string) ([]models.InterventionOutcome, Report, error) {
	if len(rows) < 2 {
		return nil, Report{}, fmt.Errorf("file has no data rows")
	}

	columns := detectColumns(rows[0])
	if _, ok := columns["success_rate"]; !ok {
		return nil, Report{}, fmt.Errorf("missing required column success_rate")
	}

	var (
		out    []models.InterventionOutcome
		report Report
	)

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 {
			continue
		}

		outcome, err := parseRow(row, columns)
		if err != nil {
			report.Skipped++
			continue
		}
		out = append(out, outcome)
		report.Imported++
	}

	if report.Imported == 0 {
		return nil, report, fmt.Errorf("no valid rows in upload (%d skipped)", report.Skipped)
	}
	return out, report, nil
}

// detectColumns maps normalized header names to their index in the row.
func detectColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		key = strings.ReplaceAll(key, " ", "_")
		if key != "" {
			columns[key] = i
		}
	}
	return columns
}

func parseRow(row []string, columns map[string]int) (models.InterventionOutcome, error) {
	var outcome models.InterventionOutcome

	rate, err := floatField(row, columns, "success_rate")
	if err != nil {
		return outcome, err
	}
	if rate < 0 || rate > 100 {
		return outcome, fmt.Errorf("success_rate %v out of range", rate)
	}
	outcome.SuccessRate = rate

	for _, column := range models.AttributeColumns() {
		if _, ok := columns[column]; !ok {
			continue
		}
		value, err := floatField(row, columns, column)
		if err != nil {
			return outcome, err
		}
		setAttribute(&outcome, column, value)
	}

	var mask uint8
	for bit, column := range models.InterventionColumns() {
		if _, ok := columns[column]; !ok {
			continue
		}
		value, err := floatField(row, columns, column)
		if err != nil {
			return outcome, err
		}
		if value != 0 {
			mask |= 1 << bit
		}
	}
	outcome.Interventions = mask

	return outcome, nil
}

func floatField(row []string, columns map[string]int, column string) (float64, error) {
	idx := columns[column]
	if idx >= len(row) {
		return 0, fmt.Errorf("row too short for column %s", column)
	}
	raw := strings.TrimSpace(row[idx])
	if raw == "" {
		return 0, fmt.Errorf("empty value for column %s", column)
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("bad value %q for column %s", raw, column)
	}
	return value, nil
}

func setAttribute(o *models.InterventionOutcome, column string, value float64) {
	switch column {
	case "age":
		o.Age = int(value)
	case "gender":
		o.Gender = int(value)
	case "work_experience":
		o.WorkExperience = int(value)
	case "canada_workex":
		o.CanadaWorkex = int(value)
	case "dep_num":
		o.DepNum = int(value)
	case "canada_born":
		o.CanadaBorn = value != 0
	case "citizen_status":
		o.CitizenStatus = value != 0
	case "level_of_schooling":
		o.LevelOfSchooling = int(value)
	case "fluent_english":
		o.FluentEnglish = value != 0
	case "reading_english_scale":
		o.ReadingEnglishScale = int(value)
	case "speaking_english_scale":
		o.SpeakingEnglishScale = int(value)
	case "writing_english_scale":
		o.WritingEnglishScale = int(value)
	case "numeracy_scale":
		o.NumeracyScale = int(value)
	case "computer_scale":
		o.ComputerScale = int(value)
	case "transportation_bool":
		o.TransportationBool = value != 0
	case "caregiver_bool":
		o.CaregiverBool = value != 0
	case "housing":
		o.Housing = int(value)
	case "income_source":
		o.IncomeSource = int(value)
	case "felony_bool":
		o.FelonyBool = value != 0
	case "attending_school":
		o.AttendingSchool = value != 0
	case "currently_employed":
		o.CurrentlyEmployed = value != 0
	case "substance_use":
		o.SubstanceUse = value != 0
	case "time_unemployed":
		o.TimeUnemployed = int(value)
	case "need_mental_health_support_bool":
		o.NeedMentalHealthSupportBool = value != 0
	}
}
