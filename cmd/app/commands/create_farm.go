package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	farmDomain "github.com/allisson/farmaggregator/internal/farm/domain"
	farmUseCase "github.com/allisson/farmaggregator/internal/farm/usecase"
)

// RunCreateFarm adds a farm to the inventory. The farm starts unauthorized; it becomes
// usable once an authorization code has been exchanged through the API.
//
// Requirements: Database must be migrated and accessible.
func RunCreateFarm(
	ctx context.Context,
	registry farmUseCase.FarmRegistry,
	logger *slog.Logger,
	writer io.Writer,
	farmURL string,
	farmName string,
	scope string,
	active bool,
	format string,
) error {
	logger.Info("registering farm", slog.String("url", farmURL))

	farm, err := registry.Register(ctx, &farmDomain.RegisterFarmInput{
		URL:      farmURL,
		FarmName: farmName,
		Scope:    scope,
		Active:   active,
	})
	if err != nil {
		return fmt.Errorf("failed to register farm: %w", err)
	}

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"farm_id":   farm.ID,
			"url":       farm.URL,
			"farm_name": farm.FarmName,
			"scope":     farm.Scope,
			"active":    farm.Active,
		})
	}

	_, _ = fmt.Fprintln(writer, "\nFarm registered successfully!")
	_, _ = fmt.Fprintf(writer, "Farm ID: %d\n", farm.ID)
	_, _ = fmt.Fprintf(writer, "URL: %s\n", farm.URL)
	_, _ = fmt.Fprintf(writer, "Authorize at: %s\n", farmDomain.AuthorizeURL(farm.URL))
	return nil
}
