package table

import "testing"

func TestFormatPadsColumns(t *testing.T) {
	rows := [][]string{
		{"id", "state", "n"},
		{"files", "focused", "12"},
		{"é", "inert", "3"},
	}
	got := Format(rows, []Alignment{AlignLeft, AlignLeft, AlignRight})
	want := []string{
		"id     state     n",
		"files  focused  12",
		"é      inert     3",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestFormatIgnoresEscapeSequences(t *testing.T) {
	rows := [][]string{
		{"\x1b[1mbold\x1b[0m", "x"},
		{"plain", "y"},
	}
	got := Format(rows, nil)
	if CellWidth(got[0]) != CellWidth(got[1]) {
		t.Fatalf("expected equal widths, got %q and %q", got[0], got[1])
	}
}

func TestFormatShortRows(t *testing.T) {
	got := Format([][]string{{"a", "b"}, {"c"}}, nil)
	if got[1] != "c" {
		t.Fatalf("expected missing trailing cell to be dropped, got %q", got[1])
	}
	if Format(nil, nil) != nil {
		t.Fatalf("expected nil for no rows")
	}
}
