package export

import (
	"bytes"
	"fmt"

	"github.com/gocarina/gocsv"
)

// ScheduleCSVRow is one line of the general schedule export.
type ScheduleCSVRow struct {
	Cycle         string `csv:"cycle"`
	DegreeProgram string `csv:"degree_program"`
	Group         string `csv:"group"`
	Subject       string `csv:"subject"`
	Professor     string `csv:"professor"`
	Classroom     string `csv:"classroom"`
	Day           string `csv:"day"`
	StartTime     string `csv:"start_time"`
	EndTime       string `csv:"end_time"`
}

// CSVExporter renders schedule rows into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the rows, header included.
func (e *CSVExporter) Render(rows []ScheduleCSVRow) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := gocsv.Marshal(&rows, buf); err != nil {
		return nil, fmt.Errorf("marshal schedule csv: %w", err)
	}
	return buf.Bytes(), nil
}
