package sbb

// Wire types for the SBB FDK API. Field names follow the API's JSON;
// only the fields the mapper reads are declared.

type objectsResponse struct {
	Count     int             `json:"count"`
	Summaries []objectSummary `json:"summaries"`
	Release   *releaseInfo    `json:"release"`
}

type releaseInfo struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

type domainModel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ifcClassAssignment struct {
	Version  string `json:"version"`
	IfcClass string `json:"ifcClass"`
}

type objectSummary struct {
	ID                  string               `json:"id"`
	Name                string               `json:"name"`
	DomainName          string               `json:"domainName"`
	DomainSequence      int                  `json:"domainSequence"`
	SequenceObjectGroup int                  `json:"sequenceObjectGroup"`
	DomainModel         []domainModel        `json:"domainModel"`
	NameObjectGroup     string               `json:"nameObjectGroup"`
	NameSubgroup        string               `json:"nameSubgroup"`
	ImageID             string               `json:"imageId"`
	IfcClassAssignments []ifcClassAssignment `json:"ifcClassAssignments"`
}

type propertyFormat struct {
	Type  string `json:"type"`
	FdkID string `json:"fdkId"`
	Name  string `json:"name"`
}

type property struct {
	ID          string         `json:"id"`
	Format      propertyFormat `json:"format"`
	Name        string         `json:"name"`
	Unit        string         `json:"unit"`
	Description string         `json:"description"`
	Example     string         `json:"example"`
}

type propertySet struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Properties []property `json:"properties"`
}

// relationship entries carry more fields on the wire; only the id is kept.
type relationship struct {
	ID string `json:"id"`
}

type ebkpConcept struct {
	Code string `json:"code"`
}

type detailObject struct {
	ID                     string               `json:"id"`
	Name                   string               `json:"name"`
	DomainName             string               `json:"domainName"`
	ImageID                string               `json:"imageId"`
	Description            string               `json:"description"`
	StructuredDescription  []any                `json:"structuredDescription"`
	AksCode                string               `json:"aksCode"`
	CreationTimestamp      string               `json:"creationTimestamp"`
	ComponentRelationships []relationship       `json:"componentRelationships"`
	AssemblyRelationships  []relationship       `json:"assemblyRelationships"`
	ReleaseHistory         []any                `json:"releaseHistory"`
	SiaPhaseScopes         []any                `json:"siaPhaseScopes"`
	IfcAssignments         []ifcClassAssignment `json:"ifcAssignments"`
	EbkpConcepts           []ebkpConcept        `json:"ebkpConcepts"`
	DomainModels           []domainModel        `json:"domainModels"`
	PropertySets           []propertySet        `json:"propertySets"`
	ReferencedEnumerations []any                `json:"referencedEnumerations"`
}
