package group

import (
	"errors"
	"fmt"

	"fdk/internal/domain"
)

// Key derives the bucket name an object is grouped under.
type Key string

const (
	// KeyDomain buckets by the object's domain.
	KeyDomain Key = "domain"

	// KeyClassification buckets by the first classification code, with
	// unclassified objects collected under NoClassification.
	KeyClassification Key = "classification"

	// KeyPropertySet buckets by property-set name. One object lands in
	// every set it carries.
	KeyPropertySet Key = "propertySet"

	// KeyName buckets by object name.
	KeyName Key = "name"
)

// NoClassification is the bucket for objects without classification
// codes when grouping by KeyClassification.
const NoClassification = "No Classification"

// SortKey orders objects inside leaf buckets.
type SortKey string

const (
	SortName   SortKey = "name"
	SortID     SortKey = "id"
	SortDomain SortKey = "domain"
)

// Order is the sort direction.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

var (
	// ErrUnknownKey reports an unrecognized group key.
	ErrUnknownKey = errors.New("unknown group key")

	// ErrUnknownSortKey reports an unrecognized sort key.
	ErrUnknownSortKey = errors.New("unknown sort key")

	// ErrUnknownOrder reports an unrecognized sort order.
	ErrUnknownOrder = errors.New("unknown sort order")
)

// ParseKey validates a group key name.
func ParseKey(s string) (Key, error) {
	switch Key(s) {
	case KeyDomain, KeyClassification, KeyPropertySet, KeyName:
		return Key(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKey, s)
}

// ParseKeys validates a list of group key names.
func ParseKeys(names []string) ([]Key, error) {
	keys := make([]Key, 0, len(names))
	for _, name := range names {
		key, err := ParseKey(name)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// ParseSortKey validates a sort key name. The empty string means no
// sorting.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "", SortName, SortID, SortDomain:
		return SortKey(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
}

// ParseOrder validates a sort order. The empty string means ascending.
func ParseOrder(s string) (Order, error) {
	switch Order(s) {
	case "":
		return OrderAsc, nil
	case OrderAsc, OrderDesc:
		return Order(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOrder, s)
}

// keyValue derives the bucket name for one object. The bool is false
// when the object carries no value for the key and should be skipped.
// KeyPropertySet is handled by the caller since it produces multiple
// buckets.
func keyValue(obj *domain.CatalogObject, key Key) (string, bool) {
	switch key {
	case KeyDomain:
		return obj.Domain, obj.Domain != ""
	case KeyName:
		return obj.Name, obj.Name != ""
	case KeyClassification:
		if len(obj.Classifications) > 0 {
			return obj.Classifications[0], true
		}
		return NoClassification, true
	}
	return "", false
}

// sortValue derives the comparison string for one object.
func sortValue(obj *domain.CatalogObject, key SortKey) string {
	switch key {
	case SortName:
		return obj.Name
	case SortID:
		return string(obj.ID)
	case SortDomain:
		return obj.Domain
	}
	return ""
}
