package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MatterType represents the category of legal matter
type MatterType string

const (
	MatterTypeEmployment     MatterType = "employment"
	MatterTypePersonalInjury MatterType = "personal injury"
	MatterTypeMassTort       MatterType = "mass tort/class action"
	MatterTypeFamilyLaw      MatterType = "family law"
	MatterTypeImmigrationLaw MatterType = "immigration law"
)

// IntakeForm represents the user-supplied intake form fields
type IntakeForm struct {
	FullName     string     `json:"fullName"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Jurisdiction string     `json:"jurisdiction"`
	MatterType   MatterType `json:"matterType"`
	Summary      string     `json:"summary"`
	Goals        string     `json:"goals"`
	Urgency      string     `json:"urgency"`
}

// AIScoreBreakdown represents per-criterion case strength scores.
// Sub-ranges are documented by the analysis contract (legalMerit 0-30,
// evidenceQuality 0-20, damagesPotential 0-25, proceduralViability 0-15,
// likelihoodOfSuccess 0-10) but are advisory, not enforced.
type AIScoreBreakdown struct {
	LegalMerit          int    `json:"legalMerit"`
	EvidenceQuality     int    `json:"evidenceQuality"`
	DamagesPotential    int    `json:"damagesPotential"`
	ProceduralViability int    `json:"proceduralViability"`
	LikelihoodOfSuccess int    `json:"likelihoodOfSuccess"`
	Explanation         string `json:"explanation"`
}

// Value implements driver.Valuer for JSONB
func (b AIScoreBreakdown) Value() (driver.Value, error) {
	return json.Marshal(b)
}

// Scan implements sql.Scanner for JSONB
func (b *AIScoreBreakdown) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, b)
}

// RecommendedFirm represents a law firm suggested for the matter
type RecommendedFirm struct {
	Name          string   `json:"name"`
	Location      string   `json:"location"`
	PracticeAreas []string `json:"practiceAreas"`
	Website       string   `json:"website"`
	Reasoning     string   `json:"reasoning"`
	Source        string   `json:"source"`
}

// RecommendedFirms represents an ordered list of firm recommendations
type RecommendedFirms []RecommendedFirm

// Value implements driver.Valuer for JSONB
func (f RecommendedFirms) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

// Scan implements sql.Scanner for JSONB
func (f *RecommendedFirms) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	if len(bytes) == 0 {
		return nil
	}

	return json.Unmarshal(bytes, f)
}

// ApplicableLaw represents a statute relevant to the matter
type ApplicableLaw struct {
	Statute   string `json:"statute"`
	Summary   string `json:"summary"`
	Relevance string `json:"relevance"`
}

// ApplicableLaws represents an ordered list of applicable statutes
type ApplicableLaws []ApplicableLaw

// Value implements driver.Valuer for JSONB
func (l ApplicableLaws) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB
func (l *ApplicableLaws) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	if len(bytes) == 0 {
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// AIAssessment holds the analysis fields attached to an intake after
// creation. All fields are absent until an analysis succeeds, and stay
// absent when the analysis backend is unavailable.
type AIAssessment struct {
	AISummary        *string           `json:"aiSummary,omitempty"`
	AIScore          *int              `json:"aiScore,omitempty"`
	AIScoreBreakdown *AIScoreBreakdown `json:"aiScoreBreakdown,omitempty"`
	AIReasoning      *string           `json:"aiReasoning,omitempty"`
	AIWarnings       []string          `json:"aiWarnings,omitempty"`
	RecommendedFirms RecommendedFirms  `json:"recommendedFirms,omitempty"`
	ApplicableLaws   ApplicableLaws    `json:"applicableLaws,omitempty"`
}

// IntakeRecord represents a persisted intake submission. Form fields are
// immutable after creation; AI fields are populated at most once, during
// creation.
type IntakeRecord struct {
	ID                   uuid.UUID  `json:"id"`
	SubmittedAt          time.Time  `json:"submittedAt"`
	ShareWithMarketplace bool       `json:"shareWithMarketplace"`
	Form                 IntakeForm `json:"form"`

	AIAssessment
}
