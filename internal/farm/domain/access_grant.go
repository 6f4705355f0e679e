package domain

import "slices"

// AccessGrant describes which farms a caller may reach. It has three mutually exclusive
// shapes: every farm, an explicit set of farm IDs, or nothing at all. In the last case only
// per-request filters can reach a farm, and each of those is still checked with CanAccess.
type AccessGrant struct {
	allFarms   bool
	farmIDList []int64
}

// AllFarmsGrant returns an unrestricted grant.
func AllFarmsGrant() AccessGrant {
	return AccessGrant{allFarms: true}
}

// FarmListGrant returns a grant restricted to the given farm IDs.
// The IDs are copied so later mutation of the argument has no effect.
func FarmListGrant(ids ...int64) AccessGrant {
	list := make([]int64, len(ids))
	copy(list, ids)
	return AccessGrant{farmIDList: list}
}

// NoGrant returns a grant that gives no default access.
func NoGrant() AccessGrant {
	return AccessGrant{}
}

// AllFarms reports whether the grant is unrestricted.
func (g AccessGrant) AllFarms() bool {
	return g.allFarms
}

// HasFarmList reports whether the grant is restricted to an explicit ID set.
func (g AccessGrant) HasFarmList() bool {
	return !g.allFarms && g.farmIDList != nil
}

// FarmIDList returns a copy of the explicit ID set, or nil for the other shapes.
func (g AccessGrant) FarmIDList() []int64 {
	if !g.HasFarmList() {
		return nil
	}
	return slices.Clone(g.farmIDList)
}

// CanAccess reports whether the grant covers the farm.
func (g AccessGrant) CanAccess(farmID int64) bool {
	if g.allFarms {
		return true
	}
	return slices.Contains(g.farmIDList, farmID)
}
