package usecase

import (
	"context"
	"log/slog"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/farmaggregator/internal/errors"
	farmDomain "github.com/allisson/farmaggregator/internal/farm/domain"
	customValidation "github.com/allisson/farmaggregator/internal/validation"
)

type farmRegistry struct {
	farmRepo      FarmRepository
	clientFactory ClientFactory
	logger        *slog.Logger
}

// NewFarmRegistry creates a FarmRegistry.
func NewFarmRegistry(farmRepo FarmRepository, clientFactory ClientFactory, logger *slog.Logger) FarmRegistry {
	return &farmRegistry{
		farmRepo:      farmRepo,
		clientFactory: clientFactory,
		logger:        logger,
	}
}

func (r *farmRegistry) Register(
	ctx context.Context,
	input *farmDomain.RegisterFarmInput,
) (*farmDomain.Farm, error) {
	farmURL := strings.TrimSuffix(strings.TrimSpace(input.URL), "/")
	farmName := strings.TrimSpace(input.FarmName)

	err := validation.Errors{
		"url":       validation.Validate(farmURL, validation.Required, customValidation.FarmURL),
		"farm_name": validation.Validate(farmName, validation.Required, validation.Length(1, 255)),
	}.Filter()
	if err != nil {
		return nil, customValidation.WrapValidationError(err)
	}

	_, err = r.farmRepo.GetByURL(ctx, farmURL, false)
	switch {
	case err == nil:
		return nil, farmDomain.ErrFarmAlreadyExists
	case !apperrors.Is(err, farmDomain.ErrFarmNotFound):
		return nil, err
	}

	farm := &farmDomain.Farm{
		URL:      farmURL,
		FarmName: farmName,
		Scope:    strings.TrimSpace(input.Scope),
		Active:   input.Active,
	}
	if err := r.farmRepo.Create(ctx, farm); err != nil {
		return nil, err
	}

	r.logger.Info("farm registered", slog.Int64("farm_id", farm.ID), slog.String("url", farm.URL))
	return farm, nil
}

func (r *farmRegistry) CheckAll(ctx context.Context) ([]farmDomain.CheckResult, error) {
	farms, err := r.farmRepo.GetMulti(ctx, true)
	if err != nil {
		return nil, err
	}

	results := make([]farmDomain.CheckResult, 0, len(farms))
	for _, farm := range farms {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result := farmDomain.CheckResult{
			FarmID:   farm.ID,
			URL:      farm.URL,
			FarmName: farm.FarmName,
		}

		if _, err := r.clientFactory.BuildClient(ctx, farm); err != nil {
			var clientErr *farmDomain.ClientError
			if apperrors.As(err, &clientErr) {
				result.Error = clientErr.Message
			} else {
				result.Error = err.Error()
			}
		} else {
			result.Authorized = true
		}

		results = append(results, result)
	}

	return results, nil
}
