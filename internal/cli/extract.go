package cli

import (
	"context"
	"fmt"

	"neogiator/internal/ai"
	"neogiator/internal/common"
	"neogiator/internal/resume"
	"neogiator/internal/types"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [resume-file]",
	Short: "Extract a negotiation profile from a resume",
	Long: `Extract a structured profile from a resume file. PDF, DOCX, and plain
text resumes are supported. With an AI key configured the extraction is
structured; without one a heuristic parser produces a best-effort profile.

The extracted profile can be used as the user profile when creating a
negotiation context.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if extractConfig.OutputFormat == "" {
			extractConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(extractConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runExtract,
}

var extractConfig common.CommandConfig

func init() {
	extractCmd.Flags().StringVarP(&extractConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	extractCmd.Flags().StringVar(&extractConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = extractCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// Structured extraction needs an AI service; without a key the parser
	// falls back to heuristics on its own.
	var extractor ai.ProfileExtractor
	if cfg.HasAIKey() {
		extractAIConfig := cfg.GetExtractConfig()
		aiService, err := ai.NewService(&extractAIConfig, "extract", logger)
		if err != nil {
			return fmt.Errorf("failed to create AI service: %w", err)
		}
		extractor = aiService.Provider
	} else {
		logger.Warn("No AI key configured, using heuristic resume parsing")
	}

	parser := resume.NewParser(extractor, logger)

	extractOperation := func(ctx context.Context, filename string, data []byte) (types.ExtractedProfile, *ai.TokenUsage, error) {
		result, err := parser.Parse(ctx, filename, data)
		if err != nil {
			return types.ExtractedProfile{}, nil, err
		}
		if result.Fallback {
			logger.Warn("Structured extraction unavailable, profile built heuristically")
		}
		return result.Profile, result.Tokens, nil
	}

	logDetails := func(filename string, size int, cmdCfg common.CommandConfig) {
		logger.Info("Starting profile extraction",
			"filename", filename,
			"resume_bytes", size,
			"output_format", cmdCfg.OutputFormat)
	}

	err := common.RunFileCommand(
		cmd.Context(),
		logger,
		extractConfig,
		args[0],
		extractOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to extract profile: %w", err)
	}
	logger.Info("Profile extraction completed successfully")
	return nil
}
