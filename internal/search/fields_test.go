package search

import (
	"errors"
	"testing"

	"fdk/internal/domain"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Mode
		wantErr bool
	}{
		{name: "contains", input: "contains", want: ModeContains},
		{name: "equals", input: "equals", want: ModeEquals},
		{name: "starts with", input: "starts_with", want: ModeStartsWith},
		{name: "ends with", input: "ends_with", want: ModeEndsWith},
		{name: "empty defaults to contains", input: "", want: ModeContains},
		{name: "unknown", input: "fuzzy", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownMode) {
					t.Errorf("expected ErrUnknownMode, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestModeMatches(t *testing.T) {
	tests := []struct {
		name          string
		mode          Mode
		value         string
		query         string
		caseSensitive bool
		want          bool
	}{
		{name: "contains case-insensitive", mode: ModeContains, value: "Stone Bridge", query: "bridge", want: true},
		{name: "contains case-sensitive miss", mode: ModeContains, value: "Stone Bridge", query: "bridge", caseSensitive: true, want: false},
		{name: "contains case-sensitive hit", mode: ModeContains, value: "Stone Bridge", query: "Bridge", caseSensitive: true, want: true},
		{name: "equals", mode: ModeEquals, value: "Stone Bridge", query: "stone bridge", want: true},
		{name: "equals partial miss", mode: ModeEquals, value: "Stone Bridge", query: "stone", want: false},
		{name: "starts with", mode: ModeStartsWith, value: "Stone Bridge", query: "stone", want: true},
		{name: "starts with miss", mode: ModeStartsWith, value: "Stone Bridge", query: "bridge", want: false},
		{name: "ends with", mode: ModeEndsWith, value: "Stone Bridge", query: "BRIDGE", want: true},
		{name: "unknown mode never matches", mode: Mode("fuzzy"), value: "Stone Bridge", query: "stone", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.mode.Matches(tt.value, tt.query, tt.caseSensitive)
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNormalizeFields(t *testing.T) {
	got, err := normalizeFields(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != FieldAll {
		t.Errorf("empty fields must default to all, got %v", got)
	}

	got, err = normalizeFields([]string{"name", "propertySets"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 fields, got %v", got)
	}

	if _, err := normalizeFields([]string{"name", "color"}); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestResolveFields(t *testing.T) {
	got := resolveFields([]string{"name", "all", "propertySets"})
	if len(got) != 3 || got[0] != "name" || got[1] != "domain" || got[2] != "description" {
		t.Errorf("all must expand to the simple fields, got %v", got)
	}

	got = resolveFields([]string{"name", "properties"})
	if len(got) != 2 || got[0] != "name" {
		t.Errorf("explicit fields must pass through, got %v", got)
	}
}

func TestRequiresDetail(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		want   bool
	}{
		{name: "simple fields", fields: []string{"name", "domain"}, want: false},
		{name: "description", fields: []string{"description"}, want: true},
		{name: "property sets", fields: []string{"propertySets"}, want: true},
		{name: "all", fields: []string{FieldAll}, want: true},
		{name: "mixed", fields: []string{"name", "relationships"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := requiresDetail(tt.fields); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFieldValue(t *testing.T) {
	obj := &domain.CatalogObject{
		ID:              "obj-1",
		Name:            "Signal Box",
		Domain:          "Signalling",
		Classifications: []string{"IfcBuilding"},
		Relationships: map[string][]domain.ObjectID{
			"components": {"obj-2"},
		},
	}

	if v, ok := fieldValue(obj, "name"); !ok || v.String() != "Signal Box" {
		t.Errorf("unexpected name value: %v %v", v, ok)
	}
	if _, ok := fieldValue(obj, "description"); ok {
		t.Error("empty description must be absent")
	}
	if v, ok := fieldValue(obj, "classifications"); !ok || v.Kind() != domain.KindList || v.Len() != 1 {
		t.Errorf("unexpected classifications value: %v %v", v, ok)
	}
	if v, ok := fieldValue(obj, "relationships"); !ok || v.Kind() != domain.KindMap {
		t.Errorf("unexpected relationships value: %v %v", v, ok)
	}
	if _, ok := fieldValue(obj, "metadata"); ok {
		t.Error("unhandled fields must be absent")
	}
}
