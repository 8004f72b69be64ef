package negotiation

import (
	"fmt"
	"sort"
	"strings"

	"neogiator/internal/errors"
	"neogiator/internal/types"
)

// salaryBoost is added to a template's effectiveness score when the template
// targets salary and the current offer sits below the candidate's target.
const salaryBoost = 0.1

// SelectTemplate picks the best response template for the current turn. The
// baseline rule is strategy-only filtering plus the salary boost: candidates
// are the catalog templates matching the context's strategy, each scored by
// its effectiveness prior, boosted by salaryBoost when the template id
// contains "salary" and the current offer's salary is strictly below the
// target salary (a missing target counts as 0). Ranking is a stable descending
// sort, so score ties resolve in catalog order. The analysis argument is
// accepted for future richer matching but is not consulted by the baseline
// rule; selection stays exactly reproducible from catalog and context alone.
func SelectTemplate(catalog *Catalog, analysis types.TacticAnalysis, ctx *types.NegotiationContext) (types.ResponseTemplate, error) {
	candidates := catalog.ByStrategy(ctx.Strategy)
	if len(candidates) == 0 {
		return types.ResponseTemplate{}, errors.NewNegotiationError(errors.ErrCodeNoTemplate,
			fmt.Sprintf("no templates available for strategy %q", ctx.Strategy), nil).
			WithContext("strategy", string(ctx.Strategy))
	}

	scored := make([]scoredTemplate, len(candidates))
	for i, template := range candidates {
		scored[i] = scoredTemplate{
			template: template,
			score:    scoreTemplate(template, ctx),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	return scored[0].template, nil
}

type scoredTemplate struct {
	template types.ResponseTemplate
	score    float64
}

// scoreTemplate computes the ranking score for one candidate.
func scoreTemplate(template types.ResponseTemplate, ctx *types.NegotiationContext) float64 {
	score := template.EffectivenessScore

	if ctx.CurrentOffer != nil && strings.Contains(template.TemplateID, "salary") {
		target := 0
		if ctx.TargetSalary != nil {
			target = *ctx.TargetSalary
		}
		if ctx.CurrentOffer.Salary < target {
			score += salaryBoost
		}
	}

	return score
}
