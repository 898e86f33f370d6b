package search

import (
	"errors"
	"fmt"
	"strings"

	"fdk/internal/domain"
)

// Mode selects the string comparison used for matching.
type Mode string

const (
	ModeContains   Mode = "contains"
	ModeEquals     Mode = "equals"
	ModeStartsWith Mode = "starts_with"
	ModeEndsWith   Mode = "ends_with"
)

var (
	// ErrUnknownMode reports an unrecognized match mode.
	ErrUnknownMode = errors.New("unknown match mode")

	// ErrUnknownField reports an unrecognized search field.
	ErrUnknownField = errors.New("unknown search field")
)

// ParseMode validates a match mode name. The empty string parses to
// ModeContains.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeContains, nil
	case ModeContains, ModeEquals, ModeStartsWith, ModeEndsWith:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Matches reports whether value matches query under this mode.
// Case-insensitive matching lowers both sides.
func (m Mode) Matches(value, query string, caseSensitive bool) bool {
	if !caseSensitive {
		value = strings.ToLower(value)
		query = strings.ToLower(query)
	}

	switch m {
	case ModeContains:
		return strings.Contains(value, query)
	case ModeEquals:
		return value == query
	case ModeStartsWith:
		return strings.HasPrefix(value, query)
	case ModeEndsWith:
		return strings.HasSuffix(value, query)
	}
	return false
}

// FieldAll expands to the simple string fields name, domain and
// description.
const FieldAll = "all"

var validFields = map[string]bool{
	FieldAll:          true,
	"name":            true,
	"domain":          true,
	"description":     true,
	"classifications": true,
	"propertySets":    true,
	"properties":      true,
	"relationships":   true,
}

// detailFields can only be searched on detail objects; summaries lack
// them entirely.
var detailFields = map[string]bool{
	"propertySets":    true,
	"properties":      true,
	"relationships":   true,
	"classifications": true,
	"description":     true,
}

// normalizeFields validates the requested fields. An empty request means
// FieldAll.
func normalizeFields(fields []string) ([]string, error) {
	if len(fields) == 0 {
		return []string{FieldAll}, nil
	}

	out := make([]string, 0, len(fields))
	for _, field := range fields {
		if !validFields[field] {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
		out = append(out, field)
	}
	return out, nil
}

// resolveFields expands the FieldAll sentinel. FieldAll anywhere in the
// list takes over completely, searching only the simple string fields.
func resolveFields(fields []string) []string {
	for _, field := range fields {
		if field == FieldAll {
			return []string{"name", "domain", "description"}
		}
	}
	return fields
}

// requiresDetail reports whether the requested fields need detail
// objects. FieldAll counts because summaries carry no description.
func requiresDetail(fields []string) bool {
	for _, field := range fields {
		if field == FieldAll || detailFields[field] {
			return true
		}
	}
	return false
}

// fieldValue extracts a field as a walkable value. The bool is false for
// fields handled elsewhere or absent on this object.
func fieldValue(obj *domain.CatalogObject, field string) (domain.Value, bool) {
	switch field {
	case "name":
		return domain.StringValue(obj.Name), true
	case "domain":
		return domain.StringValue(obj.Domain), true
	case "description":
		if obj.Description == "" {
			return domain.Value{}, false
		}
		return domain.StringValue(obj.Description), true
	case "classifications":
		items := make([]domain.Value, 0, len(obj.Classifications))
		for _, code := range obj.Classifications {
			items = append(items, domain.StringValue(code))
		}
		return domain.ListValue(items...), true
	case "relationships":
		if len(obj.Relationships) == 0 {
			return domain.Value{}, false
		}
		groups := make(map[string]domain.Value, len(obj.Relationships))
		for relType, ids := range obj.Relationships {
			items := make([]domain.Value, 0, len(ids))
			for _, id := range ids {
				items = append(items, domain.StringValue(string(id)))
			}
			groups[relType] = domain.ListValue(items...)
		}
		return domain.MapValue(groups), true
	}
	return domain.Value{}, false
}
