package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Record is one raw labeled text before embedding. Type is the fine-grained
// source category (a specific generator, or "human").
type Record struct {
	Type string
	Text string
}

// LoadRecordsCSV reads raw records from a CSV file with named columns. The
// file must contain "type" and "text" columns; other columns are ignored.
func LoadRecordsCSV(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open records file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header from %s: %w", path, err)
	}

	typeCol, textCol := -1, -1
	for i, name := range header {
		switch name {
		case "type":
			typeCol = i
		case "text":
			textCol = i
		}
	}
	if typeCol < 0 {
		return nil, &MissingColumnError{Column: "type", Path: path}
	}
	if textCol < 0 {
		return nil, &MissingColumnError{Column: "text", Path: path}
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row from %s: %w", path, err)
		}
		records = append(records, Record{Type: row[typeCol], Text: row[textCol]})
	}

	return records, nil
}

// Types returns the type value of every record, in order.
func Types(records []Record) []string {
	types := make([]string, len(records))
	for i, r := range records {
		types[i] = r.Type
	}
	return types
}
