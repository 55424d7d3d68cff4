package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	anonymizationUseCase "github.com/allisson/anonymizer/internal/anonymization/usecase"
)

// RunCleanSessions deletes anonymization sessions that expired more than days ago.
// With dryRun the matching sessions are only counted.
func RunCleanSessions(
	ctx context.Context,
	useCase anonymizationUseCase.AnonymizationUseCase,
	logger *slog.Logger,
	writer io.Writer,
	days int,
	dryRun bool,
	format string,
) error {
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format: %s (valid options: text, json)", format)
	}

	logger.Info("cleaning expired sessions",
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	count, err := useCase.CleanupExpired(ctx, days, dryRun)
	if err != nil {
		return fmt.Errorf("failed to clean expired sessions: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, map[string]any{
			"count":   count,
			"days":    days,
			"dry_run": dryRun,
		}); err != nil {
			return err
		}
	} else if dryRun {
		_, _ = fmt.Fprintf(writer, "Dry-run mode: Would delete %d session(s) expired more than %d day(s) ago\n", count, days)
	} else {
		_, _ = fmt.Fprintf(writer, "Successfully deleted %d session(s) expired more than %d day(s) ago\n", count, days)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}
