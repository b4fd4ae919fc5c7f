// Package types provides shared types used across multiple packages.
// This package has no dependencies on other manuscript packages to avoid
// import cycles.
package types

// SectionKind categorizes a detected book section.
type SectionKind string

const (
	KindFrontMatter SectionKind = "front_matter"
	KindPrologue    SectionKind = "prologue"
	KindPart        SectionKind = "part"
	KindChapter     SectionKind = "chapter"
	KindEpilogue    SectionKind = "epilogue"
	KindBackMatter  SectionKind = "back_matter"
)

// DetectionMethod indicates where a section detection came from.
type DetectionMethod string

const (
	// MethodToc indicates the section was sourced from the embedded
	// table of contents.
	MethodToc DetectionMethod = "toc"
	// MethodPattern indicates detection via the section-marker pattern scan.
	MethodPattern DetectionMethod = "pattern"
	// MethodContentHeuristic indicates detection via content analysis
	// (classifier-assisted or closure-term density).
	MethodContentHeuristic DetectionMethod = "content_heuristic"
)

// ConfidenceLevel indicates the confidence of a detection.
type ConfidenceLevel string

const (
	// ConfidenceHigh indicates high confidence in the detection.
	ConfidenceHigh ConfidenceLevel = "high"
	// ConfidenceMedium indicates medium confidence in the detection.
	ConfidenceMedium ConfidenceLevel = "medium"
	// ConfidenceLow indicates low confidence; the section is retained but
	// flagged for manual review rather than dropped.
	ConfidenceLow ConfidenceLevel = "low"
)

// ParseConfidenceLevel converts a string to a ConfidenceLevel.
// Returns ConfidenceLow if the string is not recognized.
func ParseConfidenceLevel(s string) ConfidenceLevel {
	switch s {
	case "high":
		return ConfidenceHigh
	case "medium":
		return ConfidenceMedium
	case "low":
		return ConfidenceLow
	default:
		return ConfidenceLow
	}
}

// StructureType distinguishes flat chapter lists from part/chapter
// hierarchies.
type StructureType string

const (
	StructureFlat         StructureType = "flat"
	StructureHierarchical StructureType = "hierarchical"
)
