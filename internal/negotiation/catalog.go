package negotiation

import (
	"neogiator/internal/types"
)

// Catalog is the read-only set of response templates shared by all contexts.
// It is loaded once at startup and never mutated afterwards, so it needs no
// synchronization. Insertion order is significant: the selector breaks score
// ties by catalog order.
type Catalog struct {
	templates []types.ResponseTemplate
}

// NewCatalog builds a catalog from the given templates, preserving order.
func NewCatalog(templates []types.ResponseTemplate) *Catalog {
	return &Catalog{templates: templates}
}

// ByStrategy returns the templates tagged with the given strategy, in catalog order.
func (c *Catalog) ByStrategy(strategy types.NegotiationStrategy) []types.ResponseTemplate {
	var matched []types.ResponseTemplate
	for _, t := range c.templates {
		if t.Strategy == strategy {
			matched = append(matched, t)
		}
	}
	return matched
}

// Len returns the number of templates in the catalog.
func (c *Catalog) Len() int {
	return len(c.templates)
}

// DefaultCatalog returns the built-in response templates for each negotiation
// scenario.
func DefaultCatalog() *Catalog {
	return NewCatalog([]types.ResponseTemplate{
		{
			TemplateID:   "salary_undervalued",
			Strategy:     types.StrategyProfessionalPassiveAggressive,
			Tone:         types.ToneProfessionallyDisappointed,
			TemplateText: `Thank you for your offer. While I appreciate the opportunity, I must express some concern about the compensation package. Given my {experience_years} years of experience in {industry} and my track record of {achievement}, I had hoped for a more competitive offer that reflects market standards.

I'm curious about your compensation philosophy - do you typically benchmark against industry standards? I'd be interested to understand how you arrived at this figure, as it seems significantly below what I've seen for similar roles at comparable companies.`,
			Variables:          []string{"experience_years", "industry", "achievement"},
			EffectivenessScore: 0.85,
		},
		{
			TemplateID:   "benefits_inadequate",
			Strategy:     types.StrategyProfessionalPassiveAggressive,
			Tone:         types.ToneStrategicallyCurious,
			TemplateText: `I notice the benefits package is quite different from what I've seen at other companies in this space. Specifically, the {benefit_type} seems limited compared to industry standards.

Could you help me understand your benefits philosophy? I'm particularly interested in how you view employee retention and work-life balance, as these factors significantly impact my decision-making process.`,
			Variables:          []string{"benefit_type"},
			EffectivenessScore: 0.80,
		},
		{
			TemplateID:   "timeline_pressure",
			Strategy:     types.StrategyProfessionalPassiveAggressive,
			Tone:         types.TonePoliteButFirm,
			TemplateText: `I understand you'd like a quick decision, but I'm currently evaluating multiple opportunities and want to ensure I make the right choice for my career. Rushing this decision wouldn't be fair to either of us.

Given the importance of this role and the long-term commitment involved, I believe taking the time to properly evaluate all aspects of the offer is in everyone's best interest. What's your typical timeline for candidates in similar situations?`,
			Variables:          []string{},
			EffectivenessScore: 0.90,
		},
		{
			TemplateID:   "market_value_assertion",
			Strategy:     types.StrategyConfidentAssertive,
			Tone:         types.ToneConfidentlyAssertive,
			TemplateText: `Based on my research and conversations with industry peers, my market value for this role is significantly higher than what's being offered. My expertise in {skill_area} and proven track record of {specific_achievement} command premium compensation.

I'm confident I can deliver exceptional value to {company_name}, but I need to ensure the compensation reflects that value proposition. Let's discuss how we can align the offer with market standards.`,
			Variables:          []string{"skill_area", "specific_achievement", "company_name"},
			EffectivenessScore: 0.88,
		},
		{
			TemplateID:   "growth_opportunities",
			Strategy:     types.StrategyStrategicQuestioner,
			Tone:         types.ToneStrategicallyCurious,
			TemplateText: `I'm excited about the role, but I'd like to understand more about growth opportunities. Specifically:

1. How do you typically handle salary reviews and promotions?
2. What's the average tenure of employees in similar roles?
3. How do you measure and reward exceptional performance?

These factors are crucial for my long-term career planning and will significantly influence my decision.`,
			Variables:          []string{},
			EffectivenessScore: 0.82,
		},
		{
			TemplateID:   "creative_solution",
			Strategy:     types.StrategyCollaborativeProblemSolver,
			Tone:         types.TonePoliteButFirm,
			TemplateText: `I understand budget constraints, but I'm confident we can find a creative solution that works for both parties. Here are some alternatives I'd be open to discussing:

- Performance-based bonuses tied to specific metrics
- Additional equity/stock options
- Professional development budget
- Flexible work arrangements
- Earlier salary review timeline

What combination of these would make sense for your organization?`,
			Variables:          []string{},
			EffectivenessScore: 0.87,
		},
	})
}
