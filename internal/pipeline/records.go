package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/firewatch/burn-data-service/internal/domain"
)

// ReadRecords tokenizes header-bearing CSV into raw records keyed by column
// name. Rows shorter than the header leave the trailing columns absent; rows
// longer than the header have the extras dropped. Returns
// domain.ErrEmptyInput when the input holds no data rows at all.
func ReadRecords(r io.Reader) ([]domain.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, domain.ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var records []domain.RawRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(records)+2, err)
		}

		record := make(domain.RawRecord, len(header))
		for i, column := range header {
			if i < len(row) {
				record[column] = row[i]
			}
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, domain.ErrEmptyInput
	}
	return records, nil
}
