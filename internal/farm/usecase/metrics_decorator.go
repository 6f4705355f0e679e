package usecase

import (
	"context"
	"time"

	farmDomain "github.com/allisson/farmaggregator/internal/farm/domain"
	farmService "github.com/allisson/farmaggregator/internal/farm/service"
	"github.com/allisson/farmaggregator/internal/metrics"
)

// status maps an operation error to the metrics status label.
func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// farmResolverWithMetrics decorates FarmResolver with metrics instrumentation.
type farmResolverWithMetrics struct {
	next    FarmResolver
	metrics metrics.BusinessMetrics
}

// NewFarmResolverWithMetrics wraps a FarmResolver with metrics recording.
func NewFarmResolverWithMetrics(resolver FarmResolver, m metrics.BusinessMetrics) FarmResolver {
	return &farmResolverWithMetrics{
		next:    resolver,
		metrics: m,
	}
}

func (r *farmResolverWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	r.metrics.RecordOperation(ctx, "farm", operation, status(err))
	r.metrics.RecordDuration(ctx, "farm", operation, time.Since(start), status(err))
}

// ResolveByURL records metrics for URL resolution.
func (r *farmResolverWithMetrics) ResolveByURL(
	ctx context.Context,
	url *string,
	grant farmDomain.AccessGrant,
	activeOnly bool,
) (*farmDomain.Farm, error) {
	start := time.Now()
	farm, err := r.next.ResolveByURL(ctx, url, grant, activeOnly)
	r.record(ctx, "resolve_by_url", start, err)
	return farm, err
}

// ResolveByIDList records metrics for ID-list resolution.
func (r *farmResolverWithMetrics) ResolveByIDList(
	ctx context.Context,
	ids []int64,
	grant farmDomain.AccessGrant,
	activeOnly bool,
) ([]*farmDomain.Farm, error) {
	start := time.Now()
	farms, err := r.next.ResolveByIDList(ctx, ids, grant, activeOnly)
	r.record(ctx, "resolve_by_id_list", start, err)
	return farms, err
}

// ResolveCombined records metrics for combined resolution.
func (r *farmResolverWithMetrics) ResolveCombined(
	ctx context.Context,
	url *string,
	ids []int64,
	grant farmDomain.AccessGrant,
	activeOnly bool,
) ([]*farmDomain.Farm, error) {
	start := time.Now()
	farms, err := r.next.ResolveCombined(ctx, url, ids, grant, activeOnly)
	r.record(ctx, "resolve_combined", start, err)
	return farms, err
}

// ResolveByID records metrics for single-farm resolution.
func (r *farmResolverWithMetrics) ResolveByID(
	ctx context.Context,
	id int64,
	grant farmDomain.AccessGrant,
) (*farmDomain.Farm, error) {
	start := time.Now()
	farm, err := r.next.ResolveByID(ctx, id, grant)
	r.record(ctx, "resolve_by_id", start, err)
	return farm, err
}

// clientFactoryWithMetrics decorates ClientFactory with metrics instrumentation.
type clientFactoryWithMetrics struct {
	next    ClientFactory
	metrics metrics.BusinessMetrics
}

// NewClientFactoryWithMetrics wraps a ClientFactory with metrics recording.
func NewClientFactoryWithMetrics(factory ClientFactory, m metrics.BusinessMetrics) ClientFactory {
	return &clientFactoryWithMetrics{
		next:    factory,
		metrics: m,
	}
}

// BuildClient records metrics for client construction.
func (c *clientFactoryWithMetrics) BuildClient(
	ctx context.Context,
	farm *farmDomain.Farm,
) (*farmService.FarmClient, error) {
	start := time.Now()
	client, err := c.next.BuildClient(ctx, farm)

	c.metrics.RecordOperation(ctx, "farm", "client_build", status(err))
	c.metrics.RecordDuration(ctx, "farm", "client_build", time.Since(start), status(err))

	return client, err
}

// authorizationUseCaseWithMetrics decorates AuthorizationUseCase with metrics instrumentation.
type authorizationUseCaseWithMetrics struct {
	next    AuthorizationUseCase
	metrics metrics.BusinessMetrics
}

// NewAuthorizationUseCaseWithMetrics wraps an AuthorizationUseCase with metrics recording.
func NewAuthorizationUseCaseWithMetrics(
	useCase AuthorizationUseCase,
	m metrics.BusinessMetrics,
) AuthorizationUseCase {
	return &authorizationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Authorize records metrics for authorization-code exchanges.
func (a *authorizationUseCaseWithMetrics) Authorize(
	ctx context.Context,
	farmID int64,
	grant farmDomain.AccessGrant,
	params farmDomain.AuthParams,
) (*farmDomain.Farm, error) {
	start := time.Now()
	farm, err := a.next.Authorize(ctx, farmID, grant, params)

	a.metrics.RecordOperation(ctx, "farm", "authorize", status(err))
	a.metrics.RecordDuration(ctx, "farm", "authorize", time.Since(start), status(err))

	return farm, err
}
