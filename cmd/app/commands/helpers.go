// Package commands contains CLI command implementations for the application.
package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"

	"github.com/allisson/farmaggregator/internal/app"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// closeMigrate closes the migration instance and logs any errors.
func closeMigrate(migrate *migrate.Migrate, logger *slog.Logger) {
	sourceError, databaseError := migrate.Close()
	if sourceError != nil || databaseError != nil {
		logger.Error(
			"failed to close the migrate",
			slog.Any("source_error", sourceError),
			slog.Any("database_error", databaseError),
		)
	}
}

// parseFarmIDs parses a comma-separated list of positive farm ids. Blank input yields nil.
func parseFarmIDs(input string) ([]int64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	parts := strings.Split(input, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid farm id: %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// farmGrant holds the farm access chosen for a client.
type farmGrant struct {
	allFarms bool
	farmIDs  []int64
}

// resolveFarmGrant returns the grant given by flags, prompting on io when neither
// --all-farms nor --farm-ids was provided.
func resolveFarmGrant(io IOTuple, allFarms bool, farmIDsInput string) (farmGrant, error) {
	if allFarms {
		if strings.TrimSpace(farmIDsInput) != "" {
			return farmGrant{}, fmt.Errorf("--all-farms and --farm-ids are mutually exclusive")
		}
		return farmGrant{allFarms: true}, nil
	}

	if strings.TrimSpace(farmIDsInput) != "" {
		ids, err := parseFarmIDs(farmIDsInput)
		if err != nil {
			return farmGrant{}, err
		}
		return farmGrant{farmIDs: ids}, nil
	}

	return promptForFarmGrant(io)
}

// promptForFarmGrant interactively asks for the farms a client may access.
func promptForFarmGrant(io IOTuple) (farmGrant, error) {
	reader := bufio.NewReader(io.Reader)

	_, _ = fmt.Fprint(io.Writer, "Grant access to all farms? (y/n): ")
	answer, err := reader.ReadString('\n')
	if err != nil {
		return farmGrant{}, fmt.Errorf("failed to read input: %w", err)
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer == "y" || answer == "yes" {
		return farmGrant{allFarms: true}, nil
	}

	_, _ = fmt.Fprint(io.Writer, "Enter farm IDs (comma-separated, blank for none): ")
	idsInput, err := reader.ReadString('\n')
	if err != nil && idsInput == "" {
		return farmGrant{}, fmt.Errorf("failed to read farm ids: %w", err)
	}

	ids, err := parseFarmIDs(idsInput)
	if err != nil {
		return farmGrant{}, err
	}
	return farmGrant{farmIDs: ids}, nil
}

// writeJSON writes v as indented JSON.
func writeJSON(writer io.Writer, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, _ = fmt.Fprintln(writer, string(jsonBytes))
	return nil
}
