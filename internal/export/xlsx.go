package export

import (
	"io"

	"survey-gen/internal/domain"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Survey"

func writeXLSX(w io.Writer, survey *domain.Survey) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}
	for i := range survey.Questions {
		cells := row(&survey.Questions[i])
		values := make([]any, len(cells))
		for j, c := range cells {
			values[j] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheetName, "B", "B", 60); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}
