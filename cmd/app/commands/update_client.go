package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	authDomain "github.com/allisson/farmaggregator/internal/auth/domain"
	authUseCase "github.com/allisson/farmaggregator/internal/auth/usecase"
)

// RunUpdateClient replaces an existing client's name, active flag and farm access. The
// client id and secret remain unchanged. When neither allFarms nor farmIDs is given the
// current access is shown and the new grant is prompted for.
//
// Requirements: Database must be migrated and the client must exist.
func RunUpdateClient(
	ctx context.Context,
	clientUseCase authUseCase.ClientUseCase,
	logger *slog.Logger,
	io IOTuple,
	clientIDStr string,
	name string,
	isActive bool,
	allFarms bool,
	farmIDs string,
	format string,
) error {
	logger.Info("updating client", slog.String("client_id", clientIDStr))

	clientID, err := uuid.Parse(clientIDStr)
	if err != nil {
		return fmt.Errorf("invalid client ID format: %w", err)
	}

	existingClient, err := clientUseCase.Get(ctx, clientID)
	if err != nil {
		return fmt.Errorf("failed to get existing client: %w", err)
	}

	if !allFarms && farmIDs == "" {
		outputCurrentAccess(io.Writer, existingClient)
	}

	grant, err := resolveFarmGrant(io, allFarms, farmIDs)
	if err != nil {
		return fmt.Errorf("failed to get farm access: %w", err)
	}

	input := &authDomain.UpdateClientInput{
		Name:     name,
		IsActive: isActive,
		AllFarms: grant.allFarms,
		FarmIDs:  grant.farmIDs,
	}

	if err := clientUseCase.Update(ctx, clientID, input); err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	if format == "json" {
		if err := writeJSON(io.Writer, map[string]any{
			"client_id": clientID.String(),
			"name":      name,
			"is_active": isActive,
			"all_farms": grant.allFarms,
			"farm_ids":  grant.farmIDs,
		}); err != nil {
			return err
		}
	} else {
		outputUpdateClientText(io.Writer, clientID, name, isActive)
	}

	logger.Info("client updated successfully",
		slog.String("client_id", clientID.String()),
		slog.String("name", name),
		slog.Bool("is_active", isActive),
	)

	return nil
}

func outputCurrentAccess(writer io.Writer, client *authDomain.Client) {
	switch {
	case client.AllFarms:
		_, _ = fmt.Fprintln(writer, "\nCurrent access: all farms")
	case len(client.FarmIDs) > 0:
		_, _ = fmt.Fprintf(writer, "\nCurrent access: farms %v\n", client.FarmIDs)
	default:
		_, _ = fmt.Fprintln(writer, "\nCurrent access: none")
	}
}

func outputUpdateClientText(writer io.Writer, clientID uuid.UUID, name string, isActive bool) {
	_, _ = fmt.Fprintln(writer, "\nClient updated successfully!")
	_, _ = fmt.Fprintf(writer, "Client ID: %s\n", clientID.String())
	_, _ = fmt.Fprintf(writer, "Name: %s\n", name)
	_, _ = fmt.Fprintf(writer, "Active: %t\n", isActive)
}
