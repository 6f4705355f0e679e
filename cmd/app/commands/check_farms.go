package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	farmDomain "github.com/allisson/farmaggregator/internal/farm/domain"
	farmUseCase "github.com/allisson/farmaggregator/internal/farm/usecase"
)

// RunCheckFarms builds a client for every active farm, recording the authorization state
// of each one, and prints a report. It returns an error when any farm failed so that
// schedulers can alert on the exit status.
func RunCheckFarms(
	ctx context.Context,
	registry farmUseCase.FarmRegistry,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	logger.Info("checking farms")

	results, err := registry.CheckAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to check farms: %w", err)
	}

	failed := 0
	for _, result := range results {
		if !result.Authorized {
			failed++
		}
	}

	if format == "json" {
		if err := writeJSON(writer, map[string]any{
			"total":   len(results),
			"failed":  failed,
			"results": results,
		}); err != nil {
			return err
		}
	} else {
		outputCheckFarmsText(writer, results, failed)
	}

	logger.Info("farm check completed",
		slog.Int("total", len(results)),
		slog.Int("failed", failed),
	)

	if failed > 0 {
		return fmt.Errorf("%d of %d farm(s) failed authorization", failed, len(results))
	}
	return nil
}

func outputCheckFarmsText(writer io.Writer, results []farmDomain.CheckResult, failed int) {
	tw := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tURL\tSTATUS\tERROR")
	for _, result := range results {
		status := "ok"
		if !result.Authorized {
			status = "failed"
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			result.FarmID, result.FarmName, result.URL, status, result.Error)
	}
	_ = tw.Flush()

	_, _ = fmt.Fprintf(writer, "\nChecked %d farm(s), %d failed\n", len(results), failed)
}
