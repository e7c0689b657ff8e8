package model

// Asset is one owned solar production unit. Assets are immutable once
// acquired; there is no disposal path in the current design.
//
// Units:
// - CapacityKW: kW nameplate capacity
// - Efficiency: fraction in (0, 1)
// - AcquisitionCost: currency paid at deployment
type Asset struct {
	ID              string  `json:"id"`
	CapacityKW      float64 `json:"capacity_kw"`
	Efficiency      float64 `json:"efficiency"`
	AcquisitionCost float64 `json:"acquisition_cost"`
}

// Production returns the energy produced for a given production factor,
// interpreted as a percentage of nameplate output.
func (a Asset) Production(productionFactor float64) float64 {
	return a.CapacityKW * a.Efficiency * (productionFactor / 100.0)
}
