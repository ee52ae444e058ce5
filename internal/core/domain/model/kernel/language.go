package kernel

import (
	"fmt"
	"strings"

	"interpreting/internal/pkg/errs"
)

// ErrLanguagePairIsNotConstructed is returned when validating a zero-value
// LanguagePair that was not created via NewLanguagePair.
var ErrLanguagePairIsNotConstructed = errs.NewValueIsRequiredError("LanguagePair must be created via NewLanguagePair")

// LanguagePair is a value object describing the source and target language
// of an interpreting session. Languages are stored as lowercase BCP 47
// style tags (e.g. "en", "de", "pt-br"); comparison is case-insensitive.
//
// LanguagePair is immutable. Two pairs are equal only when both source and
// target match; a pair and its reverse are distinct.
type LanguagePair struct {
	source string
	target string
}

// NewLanguagePair creates a LanguagePair from source and target language
// tags. Both tags must be non-empty and must differ from each other.
func NewLanguagePair(source, target string) (LanguagePair, error) {
	source = strings.ToLower(strings.TrimSpace(source))
	target = strings.ToLower(strings.TrimSpace(target))

	if source == "" {
		return LanguagePair{}, errs.NewValueIsRequiredError("source language")
	}
	if target == "" {
		return LanguagePair{}, errs.NewValueIsRequiredError("target language")
	}
	if source == target {
		return LanguagePair{}, errs.NewValueIsInvalidErrorWithCause(
			"language pair",
			fmt.Errorf("source and target are both %q", source),
		)
	}

	return LanguagePair{source: source, target: target}, nil
}

// Source returns the source language tag.
func (p LanguagePair) Source() string {
	return p.source
}

// Target returns the target language tag.
func (p LanguagePair) Target() string {
	return p.target
}

// IsEqual compares two language pairs for equality.
func (p LanguagePair) IsEqual(other LanguagePair) bool {
	return p.source == other.source && p.target == other.target
}

// String returns the pair in "source-target" form, e.g. "en-de".
func (p LanguagePair) String() string {
	return p.source + "-" + p.target
}

// Validate checks that the pair was created via NewLanguagePair.
func (p LanguagePair) Validate() error {
	if p.source == "" || p.target == "" {
		return ErrLanguagePairIsNotConstructed
	}
	return nil
}
