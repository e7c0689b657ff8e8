package model

// EnvironmentState is one sampled reading of the simulated grid environment.
// Readings are ephemeral: a fresh state is drawn at the start of every epoch
// and never persisted.
//
// Units:
// - ProductionFactor: percentage-like solar production driver, [20, 100]
// - Price: currency per kWh, [0.05, 0.30]
// - Consumption: kWh, [30, 90]
type EnvironmentState struct {
	ProductionFactor float64 `json:"production_factor"`
	Price            float64 `json:"price"`
	Consumption      float64 `json:"consumption"`
}

// Forecast is an estimate of production and price derived from a true
// environment state. Basic and premium forecasts share this shape and
// differ only in estimation error.
type Forecast struct {
	Production float64 `json:"production"`
	Price      float64 `json:"price"`
}
