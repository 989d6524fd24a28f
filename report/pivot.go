package report

import (
	"sort"
	"strconv"

	"github.com/iabalyuk/dailytracker/storage"
)

// DateColumn is the first column of every report
const DateColumn = "date"

// Table is a date by parameter grid of rating values
type Table struct {
	Columns []string
	Rows    [][]string
}

// Pivot builds one row per day, oldest first. Columns are the date followed
// by the sorted union of tracked parameters and parameters found in entries,
// so a report with no entries still carries its headers. When a day holds
// several ratings of one parameter the first entry wins; entries come newest
// first from storage.
func Pivot(entries []storage.Entry, parameters []string) Table {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, p := range parameters {
		add(p)
	}

	cells := make(map[string]map[string]string)
	for _, e := range entries {
		add(e.Parameter)
		day, ok := cells[e.Date]
		if !ok {
			day = make(map[string]string)
			cells[e.Date] = day
		}
		if _, taken := day[e.Parameter]; !taken {
			day[e.Parameter] = strconv.Itoa(e.Value)
		}
	}
	sort.Strings(names)

	dates := make([]string, 0, len(cells))
	for d := range cells {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	t := Table{Columns: append([]string{DateColumn}, names...)}
	for _, d := range dates {
		row := make([]string, 0, len(t.Columns))
		row = append(row, d)
		for _, name := range names {
			row = append(row, cells[d][name])
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
