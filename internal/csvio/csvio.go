// Package csvio reads the input record CSV and writes the output
// cluster-assignment CSV, enforcing the "id"/"text" column contract.
package csvio

import (
	"bytes"
	"encoding/csv"
	"io"

	"github.com/lshdedup/lshdedup/internal/model"
	"github.com/lshdedup/lshdedup/internal/respenvelope"
)

// ReadRecords parses a header-plus-rows CSV into Records. The header
// must contain both an "id" and a "text" column; other columns are
// ignored. A missing column is a ConfigError; any other read failure
// is an IOError.
func ReadRecords(data []byte) ([]model.Record, *respenvelope.ServiceError) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, respenvelope.IOError("reading csv header: %v", err)
	}

	idCol, textCol := -1, -1
	for i, name := range header {
		switch name {
		case "id":
			idCol = i
		case "text":
			textCol = i
		}
	}
	if idCol == -1 || textCol == -1 {
		return nil, respenvelope.ConfigError("file must contain columns 'id' and 'text'")
	}

	var records []model.Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, respenvelope.IOError("reading csv row: %v", err)
		}
		if idCol >= len(row) || textCol >= len(row) {
			return nil, respenvelope.IOError("csv row has too few fields for header")
		}
		records = append(records, model.Record{ID: row[idCol], Text: row[textCol]})
	}
	return records, nil
}

// WriteResults emits a headerless two-column CSV: record_id then
// cluster_id, one row per clustered record. Row order is unspecified.
func WriteResults(results []model.RecordResult) ([]byte, *respenvelope.ServiceError) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, res := range results {
		if err := w.Write([]string{res.ID, res.ClusterID}); err != nil {
			return nil, respenvelope.IOError("writing csv row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, respenvelope.IOError("flushing csv writer: %v", err)
	}
	return buf.Bytes(), nil
}
