package cli

import (
	"fmt"

	"neogiator/internal/negotiation"
	"neogiator/internal/types"

	"github.com/spf13/cobra"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List available negotiation strategies",
	Long: `List the negotiation strategies and how many response templates each
one carries. The strategy controls which template pool responses are drawn
from; it can be switched mid-negotiation without losing history.`,
	Run: runStrategies,
}

var strategyDescriptions = map[types.NegotiationStrategy]string{
	types.StrategyProfessionalPassiveAggressive: "Polite on the surface, firm underneath",
	types.StrategyConfidentAssertive:            "Direct about numbers and alternatives",
	types.StrategyCollaborativeProblemSolver:    "Frames the negotiation as joint problem solving",
	types.StrategyStrategicQuestioner:           "Probes with questions before committing to numbers",
}

func runStrategies(cmd *cobra.Command, args []string) {
	catalog := negotiation.DefaultCatalog()

	fmt.Println("Available negotiation strategies:")
	fmt.Println()
	for _, strategy := range types.AllStrategies() {
		marker := " "
		if strategy == types.DefaultStrategy {
			marker = "*"
		}
		fmt.Printf("%s %-36s %d template(s)  %s\n",
			marker, strategy, len(catalog.ByStrategy(strategy)), strategyDescriptions[strategy])
	}
	fmt.Println()
	fmt.Println("* default strategy")
}
