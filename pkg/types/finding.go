// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// FindingKind classifies a finding as a definite error or a
// context-dependent warning.
type FindingKind string

const (
	// KindError marks a definite mismatch or missing field.
	KindError FindingKind = "error"

	// KindWarning marks a plausible but context-dependent mismatch,
	// such as a conference-vs-preprint year skew.
	KindWarning FindingKind = "warning"
)

// FindingField identifies which citation field a finding concerns.
type FindingField string

const (
	FieldAuthor FindingField = "author"
	FieldYear   FindingField = "year"
	FieldVenue  FindingField = "venue"
	FieldTitle  FindingField = "title"
	FieldDOI    FindingField = "doi"

	// FieldAPIFailure marks a verdict where every lookup strategy
	// exhausted its retries. The citation may verify on a later run.
	FieldAPIFailure FindingField = "api_failure"

	// FieldProcessingFailed marks a verdict produced after an internal
	// fault during a single citation's verification.
	FieldProcessingFailed FindingField = "processing_failed"
)

// Finding is one reported discrepancy or status note attached to a
// verdict.
type Finding struct {
	// Kind is error or warning.
	Kind FindingKind `json:"kind" yaml:"kind"`

	// Field names the citation field the finding concerns.
	Field FindingField `json:"field" yaml:"field"`

	// Details is a human-readable description of the discrepancy.
	Details string `json:"details" yaml:"details"`

	// Correction is the authoritative value when one applies.
	Correction string `json:"correction,omitempty" yaml:"correction,omitempty"`
}

// Verdict is the outcome of verifying one citation: the resolved paper
// (nil when no authoritative record was found), the findings in the
// order checks ran, and the best available URL for the paper.
type Verdict struct {
	// Paper is the resolved authoritative record, or nil.
	Paper *Paper `json:"paper,omitempty" yaml:"paper,omitempty"`

	// Findings lists discrepancies and status notes, errors and
	// warnings interleaved in check order.
	Findings []Finding `json:"findings" yaml:"findings"`

	// URL is the best available link for the resolved paper ("" when
	// none).
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Errors returns the findings of kind error.
func (v Verdict) Errors() []Finding {
	return v.filter(KindError)
}

// Warnings returns the findings of kind warning.
func (v Verdict) Warnings() []Finding {
	return v.filter(KindWarning)
}

func (v Verdict) filter(kind FindingKind) []Finding {
	var out []Finding
	for _, f := range v.Findings {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}
