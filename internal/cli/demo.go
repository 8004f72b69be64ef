package cli

import (
	"fmt"

	"neogiator/internal/common"
	"neogiator/internal/negotiation"
	"neogiator/internal/types"

	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a canned negotiation scenario",
	Long: `Run a complete negotiation turn against a canned scenario: a senior
engineer with a competing offer receives an initial offer below target and
Neogiator drafts the reply. The demo never calls external services, so it
shows the template-only degradation path and works without an AI key.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if demoConfig.OutputFormat == "" {
			demoConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(demoConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runDemo,
}

var (
	demoConfig     common.CommandConfig
	demoSalary     int
	demoStrategy   string
	demoShowStatus bool
)

func init() {
	demoCmd.Flags().StringVarP(&demoConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	demoCmd.Flags().StringVar(&demoConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	demoCmd.Flags().IntVar(&demoSalary, "salary", 85000, "Offered salary in the scenario")
	demoCmd.Flags().StringVar(&demoStrategy, "strategy", "", "Negotiation strategy (default: professional_passive_aggressive)")
	demoCmd.Flags().BoolVar(&demoShowStatus, "status", false, "Also print the negotiation status after the turn")
}

func runDemo(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	store := negotiation.NewStore()
	catalog := negotiation.DefaultCatalog()
	// Nil analyzer and enhancer keep the demo deterministic: neutral
	// analysis, template text verbatim.
	orchestrator := negotiation.NewOrchestrator(store, catalog, nil, nil, logger)

	target := 120000
	contextID := store.Create(negotiation.CreateParams{
		CompanyName: "TechCorp",
		Position:    "Senior Engineer",
		Profile: types.UserProfile{
			YearsExperience:      8,
			EducationLevel:       "Masters",
			Industry:             "technology",
			KeyAchievement:       "Led migration that cut infrastructure costs by 40%",
			PrimarySkill:         "Software Development",
			LeadershipExperience: true,
			HasCompetingOffer:    true,
			ContactInfo: types.ContactInfo{
				Name:  "Jane Doe",
				Email: "jane.doe@example.com",
			},
		},
		TargetSalary:   &target,
		TargetBenefits: []string{"remote work", "signing bonus"},
	})

	if demoStrategy != "" {
		strategy, err := types.ParseStrategy(demoStrategy)
		if err != nil {
			return err
		}
		if err := store.UpdateStrategy(contextID, strategy); err != nil {
			return err
		}
	}

	logger.Info("Demo negotiation created",
		"context_id", contextID,
		"offered_salary", demoSalary,
		"target_salary", target)

	message := "We're excited to extend you an offer! We need your answer by " +
		"Friday, as we have other strong candidates in the pipeline."
	offer := &types.Offer{
		Salary:   demoSalary,
		Benefits: []string{"health insurance", "401k match"},
		Remote:   false,
	}

	result, err := orchestrator.Respond(cmd.Context(), contextID, message, offer)
	if err != nil {
		return fmt.Errorf("demo negotiation turn failed: %w", err)
	}

	outputHandler := common.NewOutputHandler(logger)
	if err := outputHandler.HandleOutput(result, demoConfig); err != nil {
		return err
	}

	if demoShowStatus {
		status, err := store.Status(contextID)
		if err != nil {
			return err
		}
		// Status always goes to stdout so it never clobbers --output.
		statusConfig := common.CommandConfig{OutputFormat: demoConfig.OutputFormat}
		if err := outputHandler.HandleOutput(status, statusConfig); err != nil {
			return err
		}
	}

	return nil
}
