package domain

// Table is the raw content of a persisted CSV file.
type Table struct {
	Header []string
	Rows   [][]string
}

// Snapshot holds the records stored under one date.
type Snapshot struct {
	Date    string
	Records []Record
}

// Snapshots groups rows by their date cell, newest date first.
// Records keep file order within a date; the date column is not part of them.
func (t Table) Snapshots() []Snapshot {
	dateIdx := -1
	for i, h := range t.Header {
		if h == DateColumn {
			dateIdx = i
			break
		}
	}
	if dateIdx < 0 {
		return nil
	}

	byDate := map[string][]Record{}
	var dates []string
	for _, row := range t.Rows {
		if dateIdx >= len(row) {
			continue
		}
		date := row[dateIdx]
		var rec Record
		for i, h := range t.Header {
			if i == dateIdx || i >= len(row) {
				continue
			}
			rec.Set(h, InferValue(row[i]))
		}
		if _, ok := byDate[date]; !ok {
			dates = append(dates, date)
		}
		byDate[date] = append(byDate[date], rec)
	}

	SortDatesDesc(dates)
	out := make([]Snapshot, 0, len(dates))
	for _, d := range dates {
		out = append(out, Snapshot{Date: d, Records: byDate[d]})
	}
	return out
}
