package types

import (
	"fmt"
	"time"
)

// NegotiationStrategy identifies the overall posture used when drafting replies.
type NegotiationStrategy string

const (
	StrategyProfessionalPassiveAggressive NegotiationStrategy = "professional_passive_aggressive"
	StrategyConfidentAssertive            NegotiationStrategy = "confident_assertive"
	StrategyCollaborativeProblemSolver    NegotiationStrategy = "collaborative_problem_solver"
	StrategyStrategicQuestioner           NegotiationStrategy = "strategic_questioner"
)

// DefaultStrategy is applied to every newly created negotiation context.
const DefaultStrategy = StrategyProfessionalPassiveAggressive

// AllStrategies lists every known strategy in a stable order.
func AllStrategies() []NegotiationStrategy {
	return []NegotiationStrategy{
		StrategyProfessionalPassiveAggressive,
		StrategyConfidentAssertive,
		StrategyCollaborativeProblemSolver,
		StrategyStrategicQuestioner,
	}
}

// ParseStrategy converts a wire value into a NegotiationStrategy.
func ParseStrategy(s string) (NegotiationStrategy, error) {
	for _, strategy := range AllStrategies() {
		if string(strategy) == s {
			return strategy, nil
		}
	}
	return "", fmt.Errorf("unknown negotiation strategy: %q", s)
}

// ResponseTone describes the voice a template is written in.
type ResponseTone string

const (
	TonePoliteButFirm              ResponseTone = "polite_but_firm"
	ToneProfessionallyDisappointed ResponseTone = "professionally_disappointed"
	ToneStrategicallyCurious       ResponseTone = "strategically_curious"
	ToneConfidentlyAssertive       ResponseTone = "confidently_assertive"
)

// ContactInfo holds contact details extracted from a resume.
type ContactInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// UserProfile captures the candidate attributes leverage points are derived from.
// It is immutable after context creation in the default flow.
type UserProfile struct {
	YearsExperience      int         `json:"yearsExperience"`
	EducationLevel       string      `json:"educationLevel"`
	Industry             string      `json:"industry"`
	KeyAchievement       string      `json:"keyAchievement"`
	PrimarySkill         string      `json:"primarySkill"`
	Skills               []string    `json:"skills,omitempty"`
	Certifications       []string    `json:"certifications,omitempty"`
	LeadershipExperience bool        `json:"leadershipExperience"`
	IndustryAwards       []string    `json:"industryAwards,omitempty"`
	HasCompetingOffer    bool        `json:"hasCompetingOffer"`
	ContactInfo          ContactInfo `json:"contactInfo"`
}

// Offer is the employer's current proposal. A new offer replaces the previous
// one wholesale; fields are never merged.
type Offer struct {
	Salary    int      `json:"salary"`
	Benefits  []string `json:"benefits,omitempty"`
	StartDate string   `json:"startDate,omitempty"`
	Remote    bool     `json:"remote"`
}

// HistoryKind tags a negotiation history entry.
type HistoryKind string

const (
	HistoryOfferReceived HistoryKind = "offer_received"
	HistoryResponseSent  HistoryKind = "response_sent"
)

// HistoryEntry is one turn record in a negotiation. The history is append-only
// and chronological; entries are never reordered or truncated.
type HistoryEntry struct {
	Kind       HistoryKind `json:"kind"`
	Timestamp  time.Time   `json:"timestamp"`
	Offer      *Offer      `json:"offer,omitempty"`      // set for offer_received
	TemplateID string      `json:"templateId,omitempty"` // set for response_sent
	Response   string      `json:"response,omitempty"`   // set for response_sent
}

// NegotiationContext is the full state of one ongoing negotiation. It lives in
// process memory only and is lost on restart.
type NegotiationContext struct {
	CompanyName    string              `json:"companyName"`
	Position       string              `json:"position"`
	CurrentOffer   *Offer              `json:"currentOffer,omitempty"` // nil until the first offer arrives
	UserProfile    UserProfile         `json:"userProfile"`
	History        []HistoryEntry      `json:"negotiationHistory"`
	Strategy       NegotiationStrategy `json:"strategy"`
	TargetSalary   *int                `json:"targetSalary,omitempty"`
	TargetBenefits []string            `json:"targetBenefits,omitempty"`
	DealBreakers   []string            `json:"dealBreakers,omitempty"`
	LeveragePoints []string            `json:"leveragePoints"`
}

// NegotiationStatus is a read-only projection of a context for external display.
type NegotiationStatus struct {
	ContextID      string              `json:"contextId"`
	Company        string              `json:"company"`
	Position       string              `json:"position"`
	Strategy       NegotiationStrategy `json:"strategy"`
	CurrentOffer   *Offer              `json:"currentOffer,omitempty"`
	History        []HistoryEntry      `json:"negotiationHistory"`
	LeveragePoints []string            `json:"leveragePoints"`
	TargetSalary   *int                `json:"targetSalary,omitempty"`
}

// ResponseTemplate is a canned reply loaded once at startup and never mutated.
type ResponseTemplate struct {
	TemplateID         string              `json:"templateId"`
	Strategy           NegotiationStrategy `json:"strategy"`
	Tone               ResponseTone        `json:"tone"`
	TemplateText       string              `json:"templateText"`
	Variables          []string            `json:"variables"`
	EffectivenessScore float64             `json:"effectivenessScore"` // prior in [0,1] used for ranking
}

// TacticAnalysis is the externally produced read on an employer message. It is
// treated as unstructured evidence; only its shape is relied upon.
type TacticAnalysis struct {
	Tactic           string   `json:"tactic"`
	PressurePoints   []string `json:"pressurePoints"`
	InformationNeeds []string `json:"informationNeeds,omitempty"`
	ResponseStrategy string   `json:"responseStrategy"`
}

// NeutralAnalysis is the fallback used when the external tactic analyzer fails.
// Drafting must never hard-fail merely because analysis did.
func NeutralAnalysis() TacticAnalysis {
	return TacticAnalysis{
		Tactic:           "unknown",
		PressurePoints:   []string{},
		ResponseStrategy: "professional",
	}
}

// ExtractedProfile is the structured output of the resume-to-profile capability.
type ExtractedProfile struct {
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	Phone           string           `json:"phone"`
	YearsExperience int              `json:"yearsExperience"`
	EducationLevel  string           `json:"educationLevel"`
	Industry        string           `json:"industry"`
	Skills          []string         `json:"skills"`
	Certifications  []string         `json:"certifications"`
	Achievements    []string         `json:"achievements"`
	WorkExperience  []WorkExperience `json:"workExperience"`
	Education       []Education      `json:"education"`
	Languages       []string         `json:"languages"`
	RawText         string           `json:"-"`
}

// WorkExperience is one position on a resume.
type WorkExperience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// Education is one degree on a resume.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}
