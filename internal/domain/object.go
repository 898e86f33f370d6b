package domain

import "sort"

// ObjectID is a unique identifier for a catalog object.
// IDs are assigned by the remote catalog and stable across releases.
type ObjectID string

// String returns the string representation.
func (id ObjectID) String() string {
	return string(id)
}

// CatalogObject represents a single object in the facility data catalog.
//
// Objects exist in two shapes. The bulk listing endpoint returns summary
// objects without property sets; the per-id endpoint returns detail objects
// with full property sets, relationships, and classifications. A detail
// object is always a superset of the summary fields for the same id.
// Instances are immutable value objects; an update replaces the cache entry.
type CatalogObject struct {
	// ID is the unique identifier, stable across catalog releases.
	ID ObjectID `json:"id"`

	// Name is the human-readable object name.
	Name string `json:"name"`

	// Domain is the catalog category this object belongs to.
	Domain string `json:"domain"`

	// Description provides details about the object.
	Description string `json:"description,omitempty"`

	// ImageID references an image resource, if any.
	ImageID string `json:"image_id,omitempty"`

	// PropertySets are the attribute groups attached to this object.
	// Present only on detail objects; order follows the source.
	PropertySets []PropertySet `json:"property_sets,omitempty"`

	// Relationships maps a relation type to the ids of related objects.
	Relationships map[string][]ObjectID `json:"relationships,omitempty"`

	// Classifications are the classification codes assigned to this object.
	Classifications []string `json:"classifications,omitempty"`

	// Metadata holds vendor-specific fields without a dedicated slot.
	Metadata map[string]Value `json:"metadata,omitempty"`
}

// IsDetail reports whether this is a detail object.
// An object with at least one property set counts as detail.
func (o *CatalogObject) IsDetail() bool {
	return len(o.PropertySets) > 0
}

// FirstClassification returns the first classification code, or "" if the
// object has none.
func (o *CatalogObject) FirstClassification() string {
	if len(o.Classifications) == 0 {
		return ""
	}
	return o.Classifications[0]
}

// PropertySetNames returns the names of all property sets in order.
func (o *CatalogObject) PropertySetNames() []string {
	if len(o.PropertySets) == 0 {
		return nil
	}
	names := make([]string, 0, len(o.PropertySets))
	for _, ps := range o.PropertySets {
		names = append(names, ps.Name)
	}
	return names
}

// RelatedObjectIDs returns the ids of all objects this object references.
// Relation types are visited in sorted order, ids keep their source order
// within a type.
func (o *CatalogObject) RelatedObjectIDs() []ObjectID {
	if len(o.Relationships) == 0 {
		return nil
	}
	relTypes := make([]string, 0, len(o.Relationships))
	for relType := range o.Relationships {
		relTypes = append(relTypes, relType)
	}
	sort.Strings(relTypes)

	var ids []ObjectID
	for _, relType := range relTypes {
		ids = append(ids, o.Relationships[relType]...)
	}
	return ids
}

// Validate validates the catalog object.
func (o *CatalogObject) Validate() error {
	if o.ID == "" {
		return ErrInvalidObjectID
	}
	if o.Name == "" {
		return ErrInvalidObjectName
	}
	return nil
}

// PropertySet is a named group of properties attached to a catalog object.
type PropertySet struct {
	// ID is the property set identifier.
	ID string `json:"id"`

	// Name is the property set name.
	Name string `json:"name"`

	// Properties are the contained properties, in source order.
	Properties []Property `json:"properties,omitempty"`

	// Description provides details about the property set.
	Description string `json:"description,omitempty"`

	// Metadata holds vendor-specific fields.
	Metadata map[string]Value `json:"metadata,omitempty"`
}

// Property is a single attribute within a property set.
type Property struct {
	// ID is the property identifier.
	ID string `json:"id"`

	// Name is the property name.
	Name string `json:"name"`

	// Value is the property value.
	Value Value `json:"value"`

	// Unit is the measurement unit, if any.
	Unit string `json:"unit,omitempty"`

	// Description provides details about the property.
	Description string `json:"description,omitempty"`

	// DataType describes the declared value type, if any.
	DataType string `json:"data_type,omitempty"`

	// Metadata holds vendor-specific fields.
	Metadata map[string]Value `json:"metadata,omitempty"`
}
