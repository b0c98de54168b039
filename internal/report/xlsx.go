// Package report serializes extracted records into the output
// spreadsheet: a Dashboard sheet with run statistics followed by one
// row per voter record.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/voterroll/extractor/internal/domain"
)

const (
	dashboardSheet = "Dashboard"
	votersSheet    = "Voters"
)

// Columns is the fixed output column ordering. Records missing a field
// leave the cell empty; the column is never omitted.
var Columns = []string{
	"Serial No",
	"EPIC",
	"Name",
	"Father/Husband Name",
	"House No",
	"Age",
	"Gender",
	"Age Group",
	"Page",
	"Constituency No",
	"Constituency Name",
	"Part No",
	"District",
}

// Writer persists records to an xlsx workbook.
type Writer struct{}

// NewWriter creates a spreadsheet writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write saves the workbook at path. The record slice may be empty; the
// workbook is still written so the operator gets the dashboard with
// the zero-record statistics.
func (w *Writer) Write(path string, records []domain.VoterRecord, summary *domain.ExtractionSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dashboardSheet); err != nil {
		return domain.IOError("rename dashboard sheet", err)
	}
	if _, err := f.NewSheet(votersSheet); err != nil {
		return domain.IOError("create voters sheet", err)
	}

	if err := w.writeDashboard(f, records, summary); err != nil {
		return err
	}
	if err := w.writeVoters(f, records, summary); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return domain.IOError("save spreadsheet", err)
	}
	return nil
}

func (w *Writer) writeDashboard(f *excelize.File, records []domain.VoterRecord, summary *domain.ExtractionSummary) error {
	rows := [][]interface{}{
		{"Field", "Value"},
		{"Extraction Method", "Multi-strategy OCR"},
	}
	if summary != nil {
		rows = append(rows,
			[]interface{}{"Run ID", summary.RunID},
			[]interface{}{"Source", summary.SourcePath},
			[]interface{}{"DPI", summary.DPI},
			[]interface{}{"Total Pages", summary.TotalPages},
			[]interface{}{"Zero-Yield Pages", len(summary.ZeroYieldPages)},
		)
	}
	rows = append(rows, []interface{}{"Total Records", len(records)})

	if summary != nil && !summary.Metadata.IsEmpty() {
		rows = append(rows, []interface{}{"", ""}, []interface{}{"Constituency Information", ""})
		md := summary.Metadata
		for _, kv := range [][2]string{
			{"Constituency No", md.ConstituencyNo},
			{"Constituency Name", md.ConstituencyName},
			{"Part No", md.PartNo},
			{"District", md.District},
			{"Subdivision", md.Subdivision},
			{"Tehsil", md.Tehsil},
			{"Pin Code", md.PinCode},
		} {
			if kv[1] != "" {
				rows = append(rows, []interface{}{kv[0], kv[1]})
			}
		}
	}

	male, female := 0, 0
	ageGroups := map[string]int{}
	for _, rec := range records {
		switch rec.Gender {
		case domain.GenderMale:
			male++
		case domain.GenderFemale:
			female++
		}
		if rec.AgeGroup != "" {
			ageGroups[rec.AgeGroup]++
		}
	}
	rows = append(rows,
		[]interface{}{"", ""},
		[]interface{}{"Statistics", ""},
		[]interface{}{"Male Voters", male},
		[]interface{}{"Female Voters", female},
	)
	for _, group := range []string{"Under 18", "18-29", "30-45", "45+"} {
		if n := ageGroups[group]; n > 0 {
			rows = append(rows, []interface{}{"Age " + group, n})
		}
	}

	for i, row := range rows {
		if err := setRow(f, dashboardSheet, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeVoters(f *excelize.File, records []domain.VoterRecord, summary *domain.ExtractionSummary) error {
	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := setRow(f, votersSheet, 1, header); err != nil {
		return err
	}

	var md domain.RollMetadata
	if summary != nil {
		md = summary.Metadata
	}

	for i, rec := range records {
		row := []interface{}{
			rec.SerialNo,
			rec.EPIC,
			rec.Name,
			rec.FatherHusbandName,
			rec.HouseNo,
			emptyIfZero(rec.Age),
			rec.Gender,
			rec.AgeGroup,
			emptyIfZero(rec.PageIndex),
			md.ConstituencyNo,
			md.ConstituencyName,
			md.PartNo,
			md.District,
		}
		if err := setRow(f, votersSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return domain.IOError(fmt.Sprintf("row %d of %s", rowNum, sheet), err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return domain.IOError(fmt.Sprintf("write row %d of %s", rowNum, sheet), err)
	}
	return nil
}

// emptyIfZero keeps unrecovered numeric fields as empty cells instead
// of misleading zeros.
func emptyIfZero(v int) interface{} {
	if v == 0 {
		return ""
	}
	return v
}
