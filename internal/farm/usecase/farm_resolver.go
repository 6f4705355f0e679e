package usecase

import (
	"context"

	farmDomain "github.com/allisson/farmaggregator/internal/farm/domain"
)

// farmResolver implements FarmResolver on top of a FarmRepository.
type farmResolver struct {
	farmRepo FarmRepository
}

// NewFarmResolver creates a FarmResolver.
func NewFarmResolver(farmRepo FarmRepository) FarmResolver {
	return &farmResolver{farmRepo: farmRepo}
}

func (r *farmResolver) ResolveByURL(
	ctx context.Context,
	url *string,
	grant farmDomain.AccessGrant,
	activeOnly bool,
) (*farmDomain.Farm, error) {
	if url == nil {
		return nil, nil
	}

	farm, err := r.farmRepo.GetByURL(ctx, *url, activeOnly)
	if err != nil {
		return nil, err
	}

	if !grant.CanAccess(farm.ID) {
		return nil, farmDomain.ErrFarmForbidden
	}

	return farm, nil
}

func (r *farmResolver) ResolveByIDList(
	ctx context.Context,
	ids []int64,
	grant farmDomain.AccessGrant,
	activeOnly bool,
) ([]*farmDomain.Farm, error) {
	if ids == nil {
		switch {
		case grant.AllFarms():
			return r.farmRepo.GetMulti(ctx, activeOnly)
		case grant.HasFarmList():
			return r.farmRepo.GetByMultiID(ctx, grant.FarmIDList(), activeOnly)
		default:
			return nil, nil
		}
	}

	// All-or-nothing: one inaccessible id rejects the whole request before any fetch.
	for _, id := range ids {
		if !grant.CanAccess(id) {
			return nil, farmDomain.ErrFarmForbidden
		}
	}

	farms, err := r.farmRepo.GetByMultiID(ctx, ids, activeOnly)
	if err != nil {
		return nil, err
	}
	if len(farms) == 0 {
		return nil, farmDomain.ErrFarmNotFound
	}

	return farms, nil
}

func (r *farmResolver) ResolveCombined(
	ctx context.Context,
	url *string,
	ids []int64,
	grant farmDomain.AccessGrant,
	activeOnly bool,
) ([]*farmDomain.Farm, error) {
	farmByURL, err := r.ResolveByURL(ctx, url, grant, activeOnly)
	if err != nil {
		return nil, err
	}

	farmsByList, err := r.ResolveByIDList(ctx, ids, grant, activeOnly)
	if err != nil {
		return nil, err
	}

	farms := []*farmDomain.Farm{}
	if farmByURL != nil {
		farms = append(farms, farmByURL)
	} else if farmsByList != nil {
		farms = append(farms, farmsByList...)
	}

	return farms, nil
}

func (r *farmResolver) ResolveByID(
	ctx context.Context,
	id int64,
	grant farmDomain.AccessGrant,
) (*farmDomain.Farm, error) {
	if !grant.CanAccess(id) {
		return nil, farmDomain.ErrFarmForbidden
	}

	return r.farmRepo.GetByID(ctx, id)
}
