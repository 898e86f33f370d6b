package service

import (
	"context"

	"fdk/internal/domain"
)

// DefaultNetworkDepth bounds a reference network walk when no depth is
// given.
const DefaultNetworkDepth = 2

// ReferenceAnalysis describes how one object is linked to the rest of
// the catalog. ReferencedBy lists objects pointing at it, ReferencesTo
// the objects it points at.
type ReferenceAnalysis struct {
	ObjectID       domain.ObjectID   `json:"object_id"`
	ReferencedBy   []domain.ObjectID `json:"referenced_by"`
	ReferencesTo   []domain.ObjectID `json:"references_to"`
	ReferenceCount int               `json:"reference_count"`
	// Depth is the hop distance from the start object in a network
	// walk, 0 for a direct analysis.
	Depth int `json:"depth_level"`
}

// References analyzes the incoming and outgoing references of one
// object across every known object, cache-first. An unknown id yields
// an empty analysis rather than an error; it may still be referenced.
func (s *Service) References(ctx context.Context, id domain.ObjectID, language string) (ReferenceAnalysis, error) {
	if id == "" {
		return ReferenceAnalysis{}, domain.ErrInvalidObjectID
	}

	objects, err := s.allObjects(ctx, normalizeLanguage(language))
	if err != nil {
		return ReferenceAnalysis{}, err
	}

	return buildAnalysis(id, objects), nil
}

// ReferenceNetwork walks references breadth-first in both directions
// up to maxDepth hops from start. Every visited object maps to its
// analysis, annotated with its hop distance.
func (s *Service) ReferenceNetwork(ctx context.Context, start domain.ObjectID, maxDepth int, language string) (map[domain.ObjectID]*ReferenceAnalysis, error) {
	if start == "" {
		return nil, domain.ErrInvalidObjectID
	}
	if maxDepth <= 0 {
		maxDepth = DefaultNetworkDepth
	}

	objects, err := s.allObjects(ctx, normalizeLanguage(language))
	if err != nil {
		return nil, err
	}

	type hop struct {
		id    domain.ObjectID
		depth int
	}

	network := make(map[domain.ObjectID]*ReferenceAnalysis)
	visited := make(map[domain.ObjectID]bool)
	queue := []hop{{start, 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current.id] || current.depth > maxDepth {
			continue
		}
		visited[current.id] = true

		analysis := buildAnalysis(current.id, objects)
		analysis.Depth = current.depth
		network[current.id] = &analysis

		if current.depth == maxDepth {
			continue
		}
		for _, next := range analysis.ReferencesTo {
			if !visited[next] {
				queue = append(queue, hop{next, current.depth + 1})
			}
		}
		for _, next := range analysis.ReferencedBy {
			if !visited[next] {
				queue = append(queue, hop{next, current.depth + 1})
			}
		}
	}

	return network, nil
}

func buildAnalysis(id domain.ObjectID, objects []*domain.CatalogObject) ReferenceAnalysis {
	analysis := ReferenceAnalysis{ObjectID: id}

	for _, obj := range objects {
		related := obj.RelatedObjectIDs()
		if obj.ID == id {
			analysis.ReferencesTo = related
		}
		for _, target := range related {
			if target == id {
				analysis.ReferencedBy = append(analysis.ReferencedBy, obj.ID)
				break
			}
		}
	}

	analysis.ReferenceCount = len(analysis.ReferencedBy) + len(analysis.ReferencesTo)
	return analysis
}
