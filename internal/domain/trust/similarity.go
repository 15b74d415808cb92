package trust

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// fingerprintLen is the hex length every field digest is truncated to.
const fingerprintLen = 16

// descriptionShingleSize is the phrase length used for description Jaccard.
const descriptionShingleSize = 3

// Fingerprint carries the per-field digests and the composite content hash
// of one posting.
type Fingerprint struct {
	TitleHash       string
	CompanyHash     string
	LocationHash    string
	DescriptionHash string
	ContentHash     string
}

// JobContent is the comparable surface of a posting for duplicate purposes.
type JobContent struct {
	Title       string
	CompanyID   string
	CompanyName string
	Location    string
	Description string
	SalaryMin   *float64
	SalaryMax   *float64
}

// ComputeFingerprint hashes the normalized text fields and derives the
// composite content hash from the concatenated field digests.
func ComputeFingerprint(content JobContent) Fingerprint {
	fp := Fingerprint{
		TitleHash:       fieldHash(content.Title),
		CompanyHash:     fieldHash(content.CompanyName),
		LocationHash:    fieldHash(content.Location),
		DescriptionHash: fieldHash(content.Description),
	}
	fp.ContentHash = truncatedSHA256(fp.TitleHash + fp.CompanyHash + fp.LocationHash + fp.DescriptionHash)
	return fp
}

func fieldHash(raw string) string {
	return truncatedSHA256(normalizeForHash(raw))
}

func truncatedSHA256(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:fingerprintLen]
}

// weightAcc accumulates weighted similarity signals; unavailable signals are
// simply never added, so finalization renormalizes over what was present.
type weightAcc struct {
	weightedSum float64
	weightSum   float64
}

func (a *weightAcc) add(weight float64, value float64) {
	a.weightedSum += weight * value
	a.weightSum += weight
}

func (a *weightAcc) value() float64 {
	if a.weightSum == 0 {
		return 0
	}
	return a.weightedSum / a.weightSum
}

// Similarity weights; renormalized when a signal is unavailable for a pair.
const (
	weightTitle       = 0.30
	weightCompany     = 0.25
	weightDescription = 0.25
	weightLocation    = 0.10
	weightSalary      = 0.10
)

// CompareJobs scores two postings in [0,1].
func CompareJobs(a JobContent, b JobContent) float64 {
	var acc weightAcc

	if a.Title != "" && b.Title != "" {
		acc.add(weightTitle, TrigramSimilarity(a.Title, b.Title))
	}
	if sim, ok := companySimilarity(a, b); ok {
		acc.add(weightCompany, sim)
	}
	if a.Location != "" && b.Location != "" {
		acc.add(weightLocation, TrigramSimilarity(a.Location, b.Location))
	}
	if a.Description != "" && b.Description != "" {
		acc.add(weightDescription, DescriptionSimilarity(a.Description, b.Description))
	}
	if sim, ok := salaryOverlap(a, b); ok {
		acc.add(weightSalary, sim)
	}

	return acc.value()
}

// DescriptionSimilarity is the Jaccard similarity of 3-word phrase shingles
// over the normalized descriptions.
func DescriptionSimilarity(a string, b string) float64 {
	return jaccard(shingleSet(a, descriptionShingleSize), shingleSet(b, descriptionShingleSize))
}

func companySimilarity(a JobContent, b JobContent) (float64, bool) {
	if a.CompanyID != "" && b.CompanyID != "" {
		if a.CompanyID == b.CompanyID {
			return 1, true
		}
		return 0, true
	}
	na := strings.ToLower(strings.TrimSpace(a.CompanyName))
	nb := strings.ToLower(strings.TrimSpace(b.CompanyName))
	if na == "" || nb == "" {
		return 0, false
	}
	if na == nb {
		return 1, true
	}
	return TrigramSimilarity(na, nb), true
}

// salaryOverlap is the ratio of the numeric range overlap to the larger of
// the two ranges; zero when the ranges are disjoint, unavailable when either
// side has no salary at all.
func salaryOverlap(a JobContent, b JobContent) (float64, bool) {
	aMin, aMax, aOK := salaryRange(a)
	bMin, bMax, bOK := salaryRange(b)
	if !aOK || !bOK {
		return 0, false
	}

	low := aMin
	if bMin > low {
		low = bMin
	}
	high := aMax
	if bMax < high {
		high = bMax
	}
	if high < low {
		return 0, true
	}

	larger := aMax - aMin
	if span := bMax - bMin; span > larger {
		larger = span
	}
	if larger == 0 {
		// Both are point values at the same number.
		return 1, true
	}
	return (high - low) / larger, true
}

func salaryRange(c JobContent) (float64, float64, bool) {
	if c.SalaryMin == nil && c.SalaryMax == nil {
		return 0, 0, false
	}
	min, max := 0.0, 0.0
	switch {
	case c.SalaryMin != nil && c.SalaryMax != nil:
		min, max = *c.SalaryMin, *c.SalaryMax
	case c.SalaryMin != nil:
		min, max = *c.SalaryMin, *c.SalaryMin
	default:
		min, max = *c.SalaryMax, *c.SalaryMax
	}
	if max < min {
		min, max = max, min
	}
	return min, max, true
}

// DuplicateReasons derives the human-readable match explanations for a pair
// that scored above the duplicate threshold.
func DuplicateReasons(a JobContent, b JobContent, aExternal string, aSource string, bExternal string, bSource string, score float64) []string {
	var reasons []string

	if normalizeForHash(a.Title) == normalizeForHash(b.Title) && a.Title != "" {
		reasons = append(reasons, "Identical title")
	}
	if sim, ok := companySimilarity(a, b); ok && sim >= 1 {
		reasons = append(reasons, "Same company")
	}
	if normalizeForHash(a.Location) == normalizeForHash(b.Location) && a.Location != "" {
		reasons = append(reasons, "Same location")
	}
	if aExternal != "" && aExternal == bExternal && aSource == bSource {
		reasons = append(reasons, "Same external posting id and source")
	}
	if a.Description != "" && b.Description != "" && DescriptionSimilarity(a.Description, b.Description) > 0.8 {
		reasons = append(reasons, "Description similarity above 0.8")
	}
	if score >= 0.95 {
		reasons = append(reasons, "Nearly identical posting")
	}

	return reasons
}
