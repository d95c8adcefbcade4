package domain

import "time"

// DataSource labels every result's provenance.
const DataSource = "Cell2Fire simulation results"

// Metadata describes where a result came from.
type Metadata struct {
	Dataset          string `json:"dataset"`
	SimulationNumber int    `json:"simulation_number"`
	GridSize         string `json:"grid_size"`
	GridFile         string `json:"grid_file"`
	TimeStep         int    `json:"time_step"`
	CadencePolicy    string `json:"cadence_policy"`
	DataSource       string `json:"data_source"`
}

// FireSpreadResult is the geocoded state of one run at one elapsed time.
// Field names are the public response contract.
type FireSpreadResult struct {
	TimeMinutes       int            `json:"time_minutes"`
	TotalBurnedPixels int            `json:"total_burned_pixels"`
	BurnedCoordinates []BurnedPixel  `json:"burned_coordinates"`
	IgnitionPoint     *GeoCoordinate `json:"ignition_point"`
	IgnitionPixel     *BurnedPixel   `json:"ignition_pixel"`
	Metadata          Metadata       `json:"metadata"`
	GeneratedAt       time.Time      `json:"generated_at"`
}

// NewResult assembles a result. TotalBurnedPixels always equals
// len(BurnedCoordinates); both ignition shapes are set or both are nil.
func NewResult(minutes int, pixels []BurnedPixel, ignition *IgnitionPoint, meta Metadata, at time.Time) *FireSpreadResult {
	if pixels == nil {
		pixels = []BurnedPixel{}
	}
	res := &FireSpreadResult{
		TimeMinutes:       minutes,
		TotalBurnedPixels: len(pixels),
		BurnedCoordinates: pixels,
		Metadata:          meta,
		GeneratedAt:       at.UTC(),
	}
	if ignition != nil {
		coord, pixel := ignition.Coordinate(), ignition.Pixel()
		res.IgnitionPoint = &coord
		res.IgnitionPixel = &pixel
	}
	return res
}
