// Package domain holds the core entities, ports, and error taxonomy for the
// Niti-Setu scheme-eligibility service.
package domain

import (
	"context"
	"errors"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrRateLimited     = errors.New("rate limited")
	ErrUpstreamBusy    = errors.New("model busy")
	ErrSchemaInvalid   = errors.New("schema invalid")
	ErrInternal        = errors.New("internal error")

	// ErrEvaluationInFlight signals that a batch evaluation is already running
	// for the session. The attempt is a no-op, not a failure.
	ErrEvaluationInFlight = errors.New("evaluation already in flight")
)

// Social categories accepted in a farmer profile.
const (
	CategoryGeneral = "General"
	CategoryOBC     = "OBC"
	CategorySC      = "SC"
	CategoryST      = "ST"
	CategoryEWS     = "EWS"
)

// Categories lists the accepted values for FarmerProfile.Category.
var Categories = []string{CategoryGeneral, CategoryOBC, CategorySC, CategoryST, CategoryEWS}

// ValidCategory reports whether c is one of the accepted social categories.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// FarmerProfile is the session-scoped profile, partial until complete.
// Empty strings and nil pointers mean "not yet known"; merges are additive and
// never clear a field that was previously set.
type FarmerProfile struct {
	Name        string   `json:"name,omitempty"`
	State       string   `json:"state,omitempty"`
	District    string   `json:"district,omitempty"`
	LandHolding *float64 `json:"landHolding,omitempty"`
	CropType    string   `json:"cropType,omitempty"`
	Category    string   `json:"category,omitempty"`
	IsMarginal  *bool    `json:"isMarginal,omitempty"`
}

// Merge returns the profile with every known field of updates applied on top.
// Fields absent from updates are left untouched.
func (p FarmerProfile) Merge(updates FarmerProfile) FarmerProfile {
	if updates.Name != "" {
		p.Name = updates.Name
	}
	if updates.State != "" {
		p.State = updates.State
	}
	if updates.District != "" {
		p.District = updates.District
	}
	if updates.LandHolding != nil {
		p.LandHolding = updates.LandHolding
	}
	if updates.CropType != "" {
		p.CropType = updates.CropType
	}
	if updates.Category != "" {
		p.Category = updates.Category
	}
	if updates.IsMarginal != nil {
		p.IsMarginal = updates.IsMarginal
	}
	return p
}

// Empty reports whether no field of the profile is known.
func (p FarmerProfile) Empty() bool {
	return p.Name == "" && p.State == "" && p.District == "" &&
		p.LandHolding == nil && p.CropType == "" && p.Category == "" && p.IsMarginal == nil
}

// ReadyForEvaluation reports whether the minimum fields for a batch
// evaluation are present. Enforced at the boundary; the evaluator itself
// assumes it holds.
func (p FarmerProfile) ReadyForEvaluation() bool {
	return p.Name != "" && p.State != ""
}

// Scheme is one entry of the static welfare-scheme catalog. The catalog is
// compiled in and immutable for the process lifetime.
type Scheme struct {
	ID                string   `json:"id" yaml:"id"`
	Name              string   `json:"name" yaml:"name"`
	Description       string   `json:"description" yaml:"description"`
	Category          string   `json:"category" yaml:"category"`
	Benefit           string   `json:"benefit" yaml:"benefit"`
	RequiredDocuments []string `json:"requiredDocuments" yaml:"required_documents"`
	Steps             []string `json:"steps" yaml:"steps"`
}

// EligibilityResult is one verdict of a batch evaluation. Results are
// ephemeral: the session holds only the latest batch and replaces it
// wholesale on each evaluation.
type EligibilityResult struct {
	SchemeID          string   `json:"schemeId"`
	SchemeName        string   `json:"schemeName"`
	IsEligible        bool     `json:"isEligible"`
	Benefit           string   `json:"benefit"`
	ProofCitation     string   `json:"proofCitation,omitempty"`
	ProofSnippet      string   `json:"proofSnippet,omitempty"`
	NextSteps         []string `json:"nextSteps,omitempty"`
	RequiredDocuments []string `json:"requiredDocuments,omitempty"`
}

// Context is an alias so ports stay decoupled from the std context import in
// signatures; adapters and usecases pass context.Context straight through.
type Context = context.Context
