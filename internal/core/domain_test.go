package core

import (
	"reflect"
	"testing"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"100", 100},
		{"49.5", 49.5},
		{" 75 ", 75},
		{"1,250", 1250},
		{"", 0},
		{"abc", 0},
		{"12x", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"-30", -30},
	}
	for _, tc := range cases {
		if got := ParsePrice(tc.in); got != tc.want {
			t.Errorf("ParsePrice(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSplitDetail(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"red, blue", []string{"red", "blue"}},
		{"a,,b", []string{"a", "b"}},
		{"  solo  ", []string{"solo"}},
		{"", nil},
		{" , , ", []string{}},
	}
	for _, tc := range cases {
		got := SplitDetail(tc.in)
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("SplitDetail(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestExtractDetailTags(t *testing.T) {
	items := []Item{
		{Detail: "A, b"},
		{Detail: "b,  C"},
		{Detail: ""},
	}
	want := []string{"A", "C", "b"} // byte order: uppercase first
	got := ExtractDetailTags(items)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractDetailTags = %v, want %v", got, want)
	}

	// Idempotent: extracting again over the same items changes nothing.
	again := ExtractDetailTags(items)
	if !reflect.DeepEqual(again, want) {
		t.Fatalf("second ExtractDetailTags = %v, want %v", again, want)
	}
}

func TestItemValidate(t *testing.T) {
	good := Item{Owner: OwnerNeng, Status: StatusSold, Game: GamePES, Price: 100}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		it   Item
		want error
	}{
		{"unknown owner", Item{Owner: "Bob", Status: StatusSold, Game: GamePES}, ErrInvalidOwner},
		{"unknown status", Item{Owner: OwnerJoy, Status: "gone", Game: GamePES}, ErrInvalidStatus},
		{"unknown game", Item{Owner: OwnerJoy, Status: StatusPending, Game: "chess"}, ErrInvalidGame},
		{"negative price", Item{Owner: OwnerJoy, Status: StatusPending, Game: GameLRG, Price: -1}, ErrInvalidPrice},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.it.Validate(); err != tc.want {
				t.Errorf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestItemPatchApply(t *testing.T) {
	it := Item{ID: "7", Owner: OwnerNeng, Detail: "x", Price: 100, Status: StatusPending, Game: GamePES}

	status := StatusSold
	price := 120.0
	patched := ItemPatch{Status: &status, Price: &price}.Apply(it)

	if patched.Status != StatusSold || patched.Price != 120 {
		t.Errorf("patched fields not applied: %+v", patched)
	}
	if patched.ID != "7" || patched.Owner != OwnerNeng || patched.Detail != "x" || patched.Game != GamePES {
		t.Errorf("untouched fields changed: %+v", patched)
	}
}

func TestItemPatchValidate(t *testing.T) {
	bad := Owner("Nobody")
	if err := (ItemPatch{Owner: &bad}).Validate(); err != ErrInvalidOwner {
		t.Errorf("expected ErrInvalidOwner, got %v", err)
	}
	if err := (ItemPatch{}).Validate(); err != nil {
		t.Errorf("empty patch should validate, got %v", err)
	}
}
