package domain

import (
	"errors"
	"testing"
)

func TestObjectID_String(t *testing.T) {
	id := ObjectID("OBJ_BR_1")
	if id.String() != "OBJ_BR_1" {
		t.Errorf("expected 'OBJ_BR_1', got %q", id.String())
	}
}

func TestCatalogObject_IsDetail(t *testing.T) {
	tests := []struct {
		name   string
		obj    *CatalogObject
		detail bool
	}{
		{
			name:   "no property sets",
			obj:    &CatalogObject{ID: "OBJ_1", Name: "Bridge"},
			detail: false,
		},
		{
			name: "empty property set slice",
			obj: &CatalogObject{
				ID:           "OBJ_1",
				Name:         "Bridge",
				PropertySets: []PropertySet{},
			},
			detail: false,
		},
		{
			name: "with property sets",
			obj: &CatalogObject{
				ID:   "OBJ_1",
				Name: "Bridge",
				PropertySets: []PropertySet{
					{ID: "PS_1", Name: "Dimensions"},
				},
			},
			detail: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.obj.IsDetail(); got != tt.detail {
				t.Errorf("IsDetail() = %v, want %v", got, tt.detail)
			}
		})
	}
}

func TestCatalogObject_FirstClassification(t *testing.T) {
	tests := []struct {
		name string
		obj  *CatalogObject
		want string
	}{
		{
			name: "none",
			obj:  &CatalogObject{ID: "OBJ_1", Name: "Bridge"},
			want: "",
		},
		{
			name: "single",
			obj: &CatalogObject{
				ID:              "OBJ_1",
				Name:            "Bridge",
				Classifications: []string{"IfcBridge"},
			},
			want: "IfcBridge",
		},
		{
			name: "first of several",
			obj: &CatalogObject{
				ID:              "OBJ_1",
				Name:            "Bridge",
				Classifications: []string{"IfcBridge", "IfcCivilElement"},
			},
			want: "IfcBridge",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.obj.FirstClassification(); got != tt.want {
				t.Errorf("FirstClassification() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCatalogObject_RelatedObjectIDs(t *testing.T) {
	obj := &CatalogObject{
		ID:   "OBJ_BR_1",
		Name: "Bridge",
		Relationships: map[string][]ObjectID{
			"components": {"OBJ_PIL_1", "OBJ_PIL_2"},
			"assemblies": {"OBJ_NET_1"},
		},
	}

	got := obj.RelatedObjectIDs()
	want := []ObjectID{"OBJ_NET_1", "OBJ_PIL_1", "OBJ_PIL_2"}
	if len(got) != len(want) {
		t.Fatalf("expected %d related ids, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("related ids = %v, want %v", got, want)
			break
		}
	}

	empty := &CatalogObject{ID: "OBJ_1", Name: "Lone"}
	if got := empty.RelatedObjectIDs(); got != nil {
		t.Errorf("expected nil for object without relationships, got %v", got)
	}
}

func TestCatalogObject_PropertySetNames(t *testing.T) {
	obj := &CatalogObject{
		ID:   "OBJ_1",
		Name: "Bridge",
		PropertySets: []PropertySet{
			{ID: "PS_1", Name: "Dimensions"},
			{ID: "PS_2", Name: "Materials"},
		},
	}

	names := obj.PropertySetNames()
	if len(names) != 2 || names[0] != "Dimensions" || names[1] != "Materials" {
		t.Errorf("PropertySetNames() = %v, want [Dimensions Materials]", names)
	}

	summary := &CatalogObject{ID: "OBJ_2", Name: "Tunnel"}
	if names := summary.PropertySetNames(); names != nil {
		t.Errorf("expected nil for summary object, got %v", names)
	}
}

func TestCatalogObject_Validate(t *testing.T) {
	tests := []struct {
		name    string
		obj     *CatalogObject
		wantErr error
	}{
		{
			name:    "valid",
			obj:     &CatalogObject{ID: "OBJ_1", Name: "Bridge", Domain: "Bridges"},
			wantErr: nil,
		},
		{
			name:    "missing id",
			obj:     &CatalogObject{Name: "Bridge"},
			wantErr: ErrInvalidObjectID,
		},
		{
			name:    "missing name",
			obj:     &CatalogObject{ID: "OBJ_1"},
			wantErr: ErrInvalidObjectName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.obj.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
