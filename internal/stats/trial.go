package stats

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// TrialRow is one record of the experiment trial log. The CSV column order
// is fixed: peripheralTieCount, ambiguity, trialNumber, coreAdopterCount,
// totalCoreNodes, peripheryAdopterCount, totalPeripheryNodes,
// weaknessCount, pressurePointCount. The log carries no header row.
type TrialRow struct {
	PeripheralTies    int
	Ambiguity         float64
	Trial             int
	CoreAdopters      int
	CoreNodes         int
	PeripheryAdopters int
	PeripheryNodes    int
	Weaknesses        int
	PressurePoints    int
}

// Fields returns the row in trial-log column order.
func (tr TrialRow) Fields() []string {
	return []string{
		strconv.Itoa(tr.PeripheralTies),
		strconv.FormatFloat(tr.Ambiguity, 'g', -1, 64),
		strconv.Itoa(tr.Trial),
		strconv.Itoa(tr.CoreAdopters),
		strconv.Itoa(tr.CoreNodes),
		strconv.Itoa(tr.PeripheryAdopters),
		strconv.Itoa(tr.PeripheryNodes),
		strconv.Itoa(tr.Weaknesses),
		strconv.Itoa(tr.PressurePoints),
	}
}

// PeripheralDiffusion returns the fraction of peripheral nodes that
// adopted.
func (tr TrialRow) PeripheralDiffusion() float64 {
	if tr.PeripheryNodes == 0 {
		return 0
	}
	return float64(tr.PeripheryAdopters) / float64(tr.PeripheryNodes)
}

// CoreDiffusion returns the fraction of core nodes that adopted.
func (tr TrialRow) CoreDiffusion() float64 {
	if tr.CoreNodes == 0 {
		return 0
	}
	return float64(tr.CoreAdopters) / float64(tr.CoreNodes)
}

// ReadTrialLog parses a headerless trial-log CSV.
func ReadTrialLog(r io.Reader) ([]TrialRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 9

	var rows []TrialRow
	for line := 1; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read trial log: %w", err)
		}
		row, err := parseTrialRow(record)
		if err != nil {
			return nil, fmt.Errorf("read trial log line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseTrialRow(record []string) (TrialRow, error) {
	var tr TrialRow
	var err error
	ints := []struct {
		dst  *int
		pos  int
		name string
	}{
		{&tr.PeripheralTies, 0, "peripheralTieCount"},
		{&tr.Trial, 2, "trialNumber"},
		{&tr.CoreAdopters, 3, "coreAdopterCount"},
		{&tr.CoreNodes, 4, "totalCoreNodes"},
		{&tr.PeripheryAdopters, 5, "peripheryAdopterCount"},
		{&tr.PeripheryNodes, 6, "totalPeripheryNodes"},
		{&tr.Weaknesses, 7, "weaknessCount"},
		{&tr.PressurePoints, 8, "pressurePointCount"},
	}
	for _, f := range ints {
		if *f.dst, err = strconv.Atoi(record[f.pos]); err != nil {
			return tr, fmt.Errorf("column %s: %w", f.name, err)
		}
	}
	if tr.Ambiguity, err = strconv.ParseFloat(record[1], 64); err != nil {
		return tr, fmt.Errorf("column ambiguity: %w", err)
	}
	return tr, nil
}
