package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	authDomain "github.com/allisson/farmaggregator/internal/auth/domain"
	authUseCase "github.com/allisson/farmaggregator/internal/auth/usecase"
)

// RunCreateClient creates an API client and prints its id and plain secret. Farm access
// comes from allFarms or farmIDs; when neither is given the grant is prompted for.
//
// Requirements: Database must be migrated and accessible.
func RunCreateClient(
	ctx context.Context,
	clientUseCase authUseCase.ClientUseCase,
	logger *slog.Logger,
	name string,
	isActive bool,
	allFarms bool,
	farmIDs string,
	format string,
	io IOTuple,
) error {
	logger.Info("creating new client", slog.String("name", name))

	grant, err := resolveFarmGrant(io, allFarms, farmIDs)
	if err != nil {
		return fmt.Errorf("failed to get farm access: %w", err)
	}

	input := &authDomain.CreateClientInput{
		Name:     name,
		IsActive: isActive,
		AllFarms: grant.allFarms,
		FarmIDs:  grant.farmIDs,
	}

	output, err := clientUseCase.Create(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	if format == "json" {
		if err := writeJSON(io.Writer, map[string]string{
			"client_id": output.ID.String(),
			"secret":    output.PlainSecret,
		}); err != nil {
			return err
		}
	} else {
		outputCreateClientText(output, io.Writer)
	}

	logger.Info("client created successfully",
		slog.String("client_id", output.ID.String()),
		slog.String("name", name),
		slog.Bool("is_active", isActive),
		slog.Bool("all_farms", grant.allFarms),
	)

	return nil
}

func outputCreateClientText(output *authDomain.CreateClientOutput, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nClient created successfully!")
	_, _ = fmt.Fprintf(writer, "Client ID: %s\n", output.ID.String())
	_, _ = fmt.Fprintf(writer, "Secret: %s\n", output.PlainSecret)
	_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The secret is shown only once. Store it securely.")
}
