package experiment

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/offero/disim/internal/stats"
)

// CaseRow is one record of the experiment case log: the per-cell averages
// over all trials of a (peripheralTies, ambiguity) parameter combination.
// The CSV column order is fixed: ambiguity, avgPeripheralDensity,
// avgPeripheralDiffusion, avgCoreDiffusion. The log carries no header row.
type CaseRow struct {
	Ambiguity              float64
	AvgPeripheralDensity   float64
	AvgPeripheralDiffusion float64
	AvgCoreDiffusion       float64
}

// Fields returns the row in case-log column order.
func (cr CaseRow) Fields() []string {
	return []string{
		strconv.FormatFloat(cr.Ambiguity, 'g', -1, 64),
		strconv.FormatFloat(cr.AvgPeripheralDensity, 'g', -1, 64),
		strconv.FormatFloat(cr.AvgPeripheralDiffusion, 'g', -1, 64),
		strconv.FormatFloat(cr.AvgCoreDiffusion, 'g', -1, 64),
	}
}

// CaseLog accumulates case rows across an experiment sweep.
type CaseLog []CaseRow

// Ambiguities returns the distinct ambiguity levels present in the log,
// ascending.
func (cl CaseLog) Ambiguities() []float64 {
	seen := make(map[float64]bool)
	var out []float64
	for _, row := range cl {
		if !seen[row.Ambiguity] {
			seen[row.Ambiguity] = true
			out = append(out, row.Ambiguity)
		}
	}
	sort.Float64s(out)
	return out
}

// Series extracts the per-density averages for one ambiguity level, sorted
// by density, ready for plotting.
func (cl CaseLog) Series(ambiguity float64) (density, peripheral, core []float64) {
	var rows []CaseRow
	for _, row := range cl {
		if row.Ambiguity == ambiguity {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].AvgPeripheralDensity < rows[j].AvgPeripheralDensity
	})
	for _, row := range rows {
		density = append(density, row.AvgPeripheralDensity)
		peripheral = append(peripheral, row.AvgPeripheralDiffusion)
		core = append(core, row.AvgCoreDiffusion)
	}
	return density, peripheral, core
}

// LoadCaseLog parses a headerless case-log CSV.
func LoadCaseLog(r io.Reader) (CaseLog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4

	var log CaseLog
	for line := 1; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read case log: %w", err)
		}
		row, err := parseCaseRow(record)
		if err != nil {
			return nil, fmt.Errorf("read case log line %d: %w", line, err)
		}
		log = append(log, row)
	}
	return log, nil
}

func parseCaseRow(record []string) (CaseRow, error) {
	var cr CaseRow
	fields := []struct {
		dst  *float64
		pos  int
		name string
	}{
		{&cr.Ambiguity, 0, "ambiguity"},
		{&cr.AvgPeripheralDensity, 1, "avgPeripheralDensity"},
		{&cr.AvgPeripheralDiffusion, 2, "avgPeripheralDiffusion"},
		{&cr.AvgCoreDiffusion, 3, "avgCoreDiffusion"},
	}
	for _, f := range fields {
		v, err := strconv.ParseFloat(record[f.pos], 64)
		if err != nil {
			return cr, fmt.Errorf("column %s: %w", f.name, err)
		}
		*f.dst = v
	}
	return cr, nil
}

// TrialLogger receives every completed trial, in deterministic order.
type TrialLogger interface {
	LogTrial(row stats.TrialRow) error
}

// CaseLogger receives one averaged row per parameter cell.
type CaseLogger interface {
	LogCase(row CaseRow) error
}

// CSVTrialLogger writes trial rows as headerless CSV.
type CSVTrialLogger struct {
	w *csv.Writer
}

// NewCSVTrialLogger wraps w in a trial-log writer.
func NewCSVTrialLogger(w io.Writer) *CSVTrialLogger {
	return &CSVTrialLogger{w: csv.NewWriter(w)}
}

// LogTrial appends one row and flushes it through to the underlying writer.
func (l *CSVTrialLogger) LogTrial(row stats.TrialRow) error {
	if err := l.w.Write(row.Fields()); err != nil {
		return fmt.Errorf("write trial row: %w", err)
	}
	l.w.Flush()
	return l.w.Error()
}

// CSVCaseLogger writes case rows as headerless CSV.
type CSVCaseLogger struct {
	w *csv.Writer
}

// NewCSVCaseLogger wraps w in a case-log writer.
func NewCSVCaseLogger(w io.Writer) *CSVCaseLogger {
	return &CSVCaseLogger{w: csv.NewWriter(w)}
}

// LogCase appends one row and flushes it through to the underlying writer.
func (l *CSVCaseLogger) LogCase(row CaseRow) error {
	if err := l.w.Write(row.Fields()); err != nil {
		return fmt.Errorf("write case row: %w", err)
	}
	l.w.Flush()
	return l.w.Error()
}
