package domain

import "time"

// ReleaseInfo identifies a catalog version snapshot. It is used only for
// cache freshness comparison, never for per-object versioning.
type ReleaseInfo struct {
	// Name is the opaque release tag.
	Name string `json:"name"`

	// Date is when the release was published.
	Date time.Time `json:"date"`
}

// Matches reports whether two releases name the same snapshot.
// Comparison is exact name equality; an unnamed release matches nothing.
func (r ReleaseInfo) Matches(other ReleaseInfo) bool {
	return r.Name != "" && r.Name == other.Name
}

// IsZero reports whether the release is unset.
func (r ReleaseInfo) IsZero() bool {
	return r.Name == "" && r.Date.IsZero()
}
