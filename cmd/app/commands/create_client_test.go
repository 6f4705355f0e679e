package commands

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/farmaggregator/internal/auth/domain"
	authMocks "github.com/allisson/farmaggregator/internal/auth/usecase/mocks"
)

func TestRunCreateClient(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	clientID := uuid.New()
	plainSecret := "test-secret"
	output := &authDomain.CreateClientOutput{
		ID:          clientID,
		PlainSecret: plainSecret,
	}

	t.Run("farm-ids-text", func(t *testing.T) {
		mockUseCase := &authMocks.MockClientUseCase{}
		input := &authDomain.CreateClientInput{
			Name:     "test-client",
			IsActive: true,
			FarmIDs:  []int64{1, 4},
		}
		mockUseCase.On("Create", ctx, input).Return(output, nil)

		var out bytes.Buffer
		err := RunCreateClient(
			ctx,
			mockUseCase,
			logger,
			"test-client",
			true,
			false,
			"1, 4",
			"text",
			IOTuple{Writer: &out},
		)

		require.NoError(t, err)
		require.Contains(t, out.String(), clientID.String())
		require.Contains(t, out.String(), plainSecret)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("all-farms-json", func(t *testing.T) {
		mockUseCase := &authMocks.MockClientUseCase{}
		input := &authDomain.CreateClientInput{
			Name:     "admin",
			IsActive: true,
			AllFarms: true,
		}
		mockUseCase.On("Create", ctx, input).Return(output, nil)

		var out bytes.Buffer
		err := RunCreateClient(ctx, mockUseCase, logger, "admin", true, true, "", "json", IOTuple{Writer: &out})

		require.NoError(t, err)
		require.Contains(t, out.String(), `"client_id": "`+clientID.String()+`"`)
		require.Contains(t, out.String(), `"secret": "test-secret"`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("interactive-farm-list", func(t *testing.T) {
		mockUseCase := &authMocks.MockClientUseCase{}
		input := &authDomain.CreateClientInput{
			Name:     "test-client",
			IsActive: false,
			FarmIDs:  []int64{7},
		}
		mockUseCase.On("Create", ctx, input).Return(output, nil)

		var out bytes.Buffer
		io := IOTuple{
			Reader: bytes.NewBufferString("n\n7\n"),
			Writer: &out,
		}

		err := RunCreateClient(ctx, mockUseCase, logger, "test-client", false, false, "", "text", io)

		require.NoError(t, err)
		require.Contains(t, out.String(), "Grant access to all farms?")
		require.Contains(t, out.String(), clientID.String())
		mockUseCase.AssertExpectations(t)
	})

	t.Run("interactive-all-farms", func(t *testing.T) {
		mockUseCase := &authMocks.MockClientUseCase{}
		input := &authDomain.CreateClientInput{
			Name:     "test-client",
			IsActive: true,
			AllFarms: true,
		}
		mockUseCase.On("Create", ctx, input).Return(output, nil)

		io := IOTuple{
			Reader: bytes.NewBufferString("yes\n"),
			Writer: &bytes.Buffer{},
		}

		err := RunCreateClient(ctx, mockUseCase, logger, "test-client", true, false, "", "text", io)

		require.NoError(t, err)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-farm-ids", func(t *testing.T) {
		mockUseCase := &authMocks.MockClientUseCase{}

		err := RunCreateClient(
			ctx, mockUseCase, logger, "test-client", true, false, "1,abc", "text", IOTuple{Writer: &bytes.Buffer{}},
		)

		require.Error(t, err)
		require.Contains(t, err.Error(), `invalid farm id: "abc"`)
		mockUseCase.AssertNotCalled(t, "Create")
	})

	t.Run("conflicting-flags", func(t *testing.T) {
		mockUseCase := &authMocks.MockClientUseCase{}

		err := RunCreateClient(
			ctx, mockUseCase, logger, "test-client", true, true, "1", "text", IOTuple{Writer: &bytes.Buffer{}},
		)

		require.Error(t, err)
		require.Contains(t, err.Error(), "mutually exclusive")
	})

	t.Run("use-case-error", func(t *testing.T) {
		mockUseCase := &authMocks.MockClientUseCase{}
		input := &authDomain.CreateClientInput{
			Name:     "test-client",
			IsActive: true,
			AllFarms: true,
		}
		mockUseCase.On("Create", ctx, input).Return(nil, errors.New("db down"))

		err := RunCreateClient(
			ctx, mockUseCase, logger, "test-client", true, true, "", "text", IOTuple{Writer: &bytes.Buffer{}},
		)

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to create client: db down")
	})
}
