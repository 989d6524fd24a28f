package report

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/iabalyuk/dailytracker/storage"
)

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"csv": FormatCSV, "XLSX": FormatXLSX, " Pdf ": FormatPDF} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("docx"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	if FormatPDF.Filename() != "daily_tracker.pdf" || FormatXLSX.Caption() != "📊 Excel format" {
		t.Fatalf("unexpected attachment metadata")
	}
}

func TestPivot(t *testing.T) {
	// newest first, as storage returns them
	entries := []storage.Entry{
		{Date: "2026-03-02", Parameter: "Mood", Value: 7},
		{Date: "2026-03-02", Parameter: "Mood", Value: 2},
		{Date: "2026-03-01", Parameter: "Energy", Value: 5},
		{Date: "2026-03-01", Parameter: "Old", Value: 9},
	}
	got := Pivot(entries, []string{"Mood", "Energy", "Sleep"})

	wantColumns := []string{"date", "Energy", "Mood", "Old", "Sleep"}
	if !reflect.DeepEqual(got.Columns, wantColumns) {
		t.Fatalf("columns = %v, want %v", got.Columns, wantColumns)
	}
	wantRows := [][]string{
		{"2026-03-01", "5", "", "9", ""},
		{"2026-03-02", "", "7", "", ""},
	}
	if !reflect.DeepEqual(got.Rows, wantRows) {
		t.Fatalf("rows = %v, want %v", got.Rows, wantRows)
	}
}

func TestPivotWithoutEntriesKeepsHeaders(t *testing.T) {
	got := Pivot(nil, []string{"Stress", "Focus"})
	if !reflect.DeepEqual(got.Columns, []string{"date", "Focus", "Stress"}) || len(got.Rows) != 0 {
		t.Fatalf("unexpected table %+v", got)
	}
}

func TestRenderCSV(t *testing.T) {
	data, err := NewRenderer().Render(FormatCSV, []string{"date", "Mood"}, [][]string{{"2026-03-01", "7"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(data) != "date,Mood\n2026-03-01,7\n" {
		t.Fatalf("csv = %q", data)
	}

	empty, err := NewRenderer().Render(FormatCSV, []string{"date", "Mood"}, nil)
	if err != nil || string(empty) != "date,Mood\n" {
		t.Fatalf("empty csv = %q, %v", empty, err)
	}
}

func TestRenderXLSX(t *testing.T) {
	data, err := NewRenderer().Render(FormatXLSX, []string{"date", "Mood"}, [][]string{{"2026-03-01", "7"}, {"2026-03-02", ""}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 || rows[0][1] != "Mood" || rows[1][1] != "7" || rows[2][0] != "2026-03-02" {
		t.Fatalf("unexpected rows %v", rows)
	}
}

func TestRenderPDF(t *testing.T) {
	for _, rows := range [][][]string{nil, {{"2026-03-01", "7"}}} {
		data, err := NewRenderer().Render(FormatPDF, []string{"date", "Mood"}, rows)
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if !bytes.HasPrefix(data, []byte("%PDF-")) {
			t.Fatalf("not a pdf: %q", data[:8])
		}
	}
}

func TestRenderRejectsBadInput(t *testing.T) {
	if _, err := NewRenderer().Render(Format(42), []string{"date"}, nil); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	if _, err := NewRenderer().Render(FormatCSV, nil, nil); err == nil {
		t.Fatalf("expected error for empty columns")
	}
}
