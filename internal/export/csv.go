package export

import (
	"encoding/csv"
	"io"

	"survey-gen/internal/domain"
)

func writeCSV(w io.Writer, survey *domain.Survey) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for i := range survey.Questions {
		if err := cw.Write(row(&survey.Questions[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
