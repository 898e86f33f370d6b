package sbb

import (
	"time"

	"fdk/internal/catalog"
	"fdk/internal/domain"
)

// Mapping from SBB wire types to the vendor-neutral domain model.
// Summaries keep the grouping fields as metadata; details additionally
// carry property sets, relationships and the full classification list.

func mapListing(resp objectsResponse) *catalog.Listing {
	objects := make([]*domain.CatalogObject, 0, len(resp.Summaries))
	for _, summary := range resp.Summaries {
		objects = append(objects, mapSummary(summary))
	}

	totalCount := resp.Count
	if totalCount == 0 {
		totalCount = len(objects)
	}

	return &catalog.Listing{
		Objects:    objects,
		TotalCount: totalCount,
		Release:    mapRelease(resp.Release),
	}
}

func mapSummary(s objectSummary) *domain.CatalogObject {
	classifications := make([]string, 0, len(s.IfcClassAssignments))
	for _, ifc := range s.IfcClassAssignments {
		classifications = append(classifications, ifc.IfcClass)
	}

	return &domain.CatalogObject{
		ID:              domain.ObjectID(s.ID),
		Name:            s.Name,
		Domain:          s.DomainName,
		ImageID:         s.ImageID,
		Classifications: classifications,
		Metadata: map[string]domain.Value{
			"domainSequence":      domain.NumberValue(float64(s.DomainSequence)),
			"sequenceObjectGroup": domain.NumberValue(float64(s.SequenceObjectGroup)),
			"nameObjectGroup":     domain.StringValue(s.NameObjectGroup),
			"nameSubgroup":        domain.StringValue(s.NameSubgroup),
			"domainModel":         domainModelsValue(s.DomainModel),
		},
	}
}

func mapDetail(d detailObject) *domain.CatalogObject {
	propertySets := make([]domain.PropertySet, 0, len(d.PropertySets))
	for _, pset := range d.PropertySets {
		propertySets = append(propertySets, mapPropertySet(pset))
	}

	relationships := map[string][]domain.ObjectID{}
	if len(d.ComponentRelationships) > 0 {
		relationships["components"] = relationshipIDs(d.ComponentRelationships)
	}
	if len(d.AssemblyRelationships) > 0 {
		relationships["assemblies"] = relationshipIDs(d.AssemblyRelationships)
	}

	classifications := make([]string, 0, len(d.IfcAssignments)+len(d.EbkpConcepts))
	for _, ifc := range d.IfcAssignments {
		classifications = append(classifications, ifc.IfcClass)
	}
	for _, ebkp := range d.EbkpConcepts {
		classifications = append(classifications, ebkp.Code)
	}

	return &domain.CatalogObject{
		ID:              domain.ObjectID(d.ID),
		Name:            d.Name,
		Domain:          d.DomainName,
		Description:     d.Description,
		ImageID:         d.ImageID,
		PropertySets:    propertySets,
		Relationships:   relationships,
		Classifications: classifications,
		Metadata: map[string]domain.Value{
			"aksCode":                domain.StringValue(d.AksCode),
			"creationTimestamp":      domain.StringValue(d.CreationTimestamp),
			"structuredDescription":  domain.FromAny(d.StructuredDescription),
			"releaseHistory":         domain.FromAny(d.ReleaseHistory),
			"siaPhaseScopes":         domain.FromAny(d.SiaPhaseScopes),
			"domainModels":           domainModelsValue(d.DomainModels),
			"referencedEnumerations": domain.FromAny(d.ReferencedEnumerations),
		},
	}
}

func mapPropertySet(ps propertySet) domain.PropertySet {
	properties := make([]domain.Property, 0, len(ps.Properties))
	for _, prop := range ps.Properties {
		properties = append(properties, mapProperty(prop))
	}

	return domain.PropertySet{
		ID:         ps.ID,
		Name:       ps.Name,
		Properties: properties,
	}
}

func mapProperty(p property) domain.Property {
	return domain.Property{
		ID:          p.ID,
		Name:        p.Name,
		Unit:        p.Unit,
		Description: p.Description,
		DataType:    p.Format.Type,
		Metadata: map[string]domain.Value{
			"fdkId":   domain.StringValue(p.Format.FdkID),
			"example": domain.StringValue(p.Example),
		},
	}
}

func mapRelease(r *releaseInfo) domain.ReleaseInfo {
	if r == nil {
		return domain.ReleaseInfo{}
	}
	return domain.ReleaseInfo{
		Name: r.Name,
		Date: parseReleaseDate(r.Date),
	}
}

// parseReleaseDate parses the release date string. The API has served
// both full timestamps and plain dates; unparseable values map to the
// zero time since freshness only compares release names.
func parseReleaseDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func relationshipIDs(rels []relationship) []domain.ObjectID {
	ids := make([]domain.ObjectID, 0, len(rels))
	for _, rel := range rels {
		ids = append(ids, domain.ObjectID(rel.ID))
	}
	return ids
}

func domainModelsValue(models []domainModel) domain.Value {
	items := make([]domain.Value, 0, len(models))
	for _, m := range models {
		items = append(items, domain.MapValue(map[string]domain.Value{
			"id":   domain.StringValue(m.ID),
			"name": domain.StringValue(m.Name),
		}))
	}
	return domain.ListValue(items...)
}
