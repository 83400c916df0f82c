package google

import (
	"testing"
	"time"

	"saletrack/internal/core"
)

func TestItemFromRow(t *testing.T) {
	cols := []string{"1700000000000", "Neng", "red, blue", "1,250", "sold", "pes", "2024-03-01T10:00:00Z", "neng"}
	it := itemFromRow(cols)

	if it.ID != "1700000000000" || it.Owner != core.OwnerNeng || it.Status != core.StatusSold {
		t.Errorf("itemFromRow = %+v", it)
	}
	if it.Price != 1250 {
		t.Errorf("price with thousand separator = %v, want 1250", it.Price)
	}
	if it.CreatedAt.IsZero() {
		t.Error("createdAt not parsed")
	}
}

func TestItemFromRowShortAndDirty(t *testing.T) {
	// Rows edited by hand often miss trailing cells or hold junk prices.
	it := itemFromRow([]string{"9", "Joy", "x", "???"})
	if it.Price != 0 {
		t.Errorf("junk price should collapse to 0, got %v", it.Price)
	}
	if !it.CreatedAt.IsZero() || it.CreatedBy != "" {
		t.Errorf("missing cells should stay zero: %+v", it)
	}
}

func TestRowFromItemRoundTrip(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	it := core.Item{
		ID: "7", Owner: core.OwnerJoy, Detail: "y", Price: 50,
		Status: core.StatusPending, Game: core.GameLRG,
		CreatedAt: at, CreatedBy: "joy",
	}
	row := rowFromItem(it)
	if len(row) != 8 {
		t.Fatalf("row has %d cells, want 8", len(row))
	}

	back := itemFromRow(toStrings(row))
	if back.ID != it.ID || back.Owner != it.Owner || back.Price != it.Price ||
		back.Status != it.Status || back.Game != it.Game || !back.CreatedAt.Equal(at) {
		t.Errorf("round trip mismatch: %+v", back)
	}
}

func TestParseTimestampLayouts(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-03-01T10:00:00Z", true},
		{"2024-03-01T10:00:00", true},
		{"2024-03-01 10:00:00", true},
		{"2024-03-01", true},
		{"yesterday", false},
		{"", false},
	}
	for _, tc := range cases {
		got := parseTimestamp(tc.in)
		if tc.ok && got.IsZero() {
			t.Errorf("parseTimestamp(%q) failed to parse", tc.in)
		}
		if !tc.ok && !got.IsZero() {
			t.Errorf("parseTimestamp(%q) = %v, want zero", tc.in, got)
		}
	}
}

func TestIsBlankRow(t *testing.T) {
	if !isBlankRow([]string{"", "", ""}) {
		t.Error("all-empty row should be blank")
	}
	if isBlankRow([]string{"", "x"}) {
		t.Error("row with content is not blank")
	}
}
