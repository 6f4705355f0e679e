package domain

// RegisterFarmInput describes a farm added to the inventory by an operator.
type RegisterFarmInput struct {
	URL      string
	FarmName string
	Scope    string
	Active   bool
}

// CheckResult is the outcome of building a client for one farm during a health check.
type CheckResult struct {
	FarmID     int64  `json:"farm_id"`
	URL        string `json:"url"`
	FarmName   string `json:"farm_name"`
	Authorized bool   `json:"authorized"`
	Error      string `json:"error,omitempty"`
}
