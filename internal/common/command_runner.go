package common

import (
	"context"
	"fmt"
	"os"

	"neogiator/internal/ai"
	"neogiator/internal/errors"
)

// FileOperationFunc is a generic signature for an operation fed by one raw
// file, with context and token usage.
type FileOperationFunc[Output any] func(ctx context.Context, filename string, data []byte) (Output, *ai.TokenUsage, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc func(filename string, size int, cfg CommandConfig)

// RunFileCommand encapsulates the common logic for file-based CLI commands:
// validate and read the input file, run the operation, report token usage,
// and write the formatted result.
func RunFileCommand[Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	filename string,
	operation FileOperationFunc[Output],
	logDetails LogDetailsFunc,
) error {
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	data, err := fileProcessor.ValidateAndReadResume(filename)
	if err != nil {
		return err
	}

	if logDetails != nil {
		logDetails(filename, len(data), cmdConfig)
	}

	result, tokenUsage, err := operation(ctx, filename, data)
	if err != nil {
		return err
	}

	ReportTokenUsage(logger, tokenUsage)

	return outputHandler.HandleOutput(result, cmdConfig)
}

// ReportTokenUsage logs AI token consumption when the operation reported any.
func ReportTokenUsage(logger *errors.Logger, tokenUsage *ai.TokenUsage) {
	if tokenUsage == nil {
		return
	}
	if logger != nil {
		logger.Info("AI token usage", "input_tokens", tokenUsage.InputTokens, "output_tokens", tokenUsage.OutputTokens, "total_tokens", tokenUsage.TotalTokens)
	} else {
		fmt.Fprintf(os.Stderr, "AI token usage: input=%d, output=%d, total=%d\n", tokenUsage.InputTokens, tokenUsage.OutputTokens, tokenUsage.TotalTokens)
	}
}
