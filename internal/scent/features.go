package scent

import "math"

// NumFeatures is the total number of sensor channels per reading.
const NumFeatures = 8

// NumVOCFeatures is the number of volatile-organic-compound channels.
const NumVOCFeatures = 6

// featureNames lists the channels in canonical column order. VOC channels
// come first, environment channels last. All vector/column code in this
// module relies on this order.
var featureNames = [NumFeatures]string{
	"acetone_ppb",
	"ethanol_ppb",
	"toluene_ppb",
	"ammonia_ppb",
	"hydrogen_sulfide_ppb",
	"terpene_ppb",
	"temperature_c",
	"humidity_pct",
}

// FeatureNames returns the canonical feature column names in order.
func FeatureNames() []string {
	names := make([]string, NumFeatures)
	copy(names, featureNames[:])
	return names
}

// FeatureVector holds one value per sensor channel. Using a fixed struct
// instead of a map makes a missing channel impossible to represent.
type FeatureVector struct {
	AcetonePPB         float64 `json:"acetone_ppb"`
	EthanolPPB         float64 `json:"ethanol_ppb"`
	ToluenePPB         float64 `json:"toluene_ppb"`
	AmmoniaPPB         float64 `json:"ammonia_ppb"`
	HydrogenSulfidePPB float64 `json:"hydrogen_sulfide_ppb"`
	TerpenePPB         float64 `json:"terpene_ppb"`
	TemperatureC       float64 `json:"temperature_c"`
	HumidityPct        float64 `json:"humidity_pct"`
}

// Values returns the channels as an array in canonical column order.
func (v FeatureVector) Values() [NumFeatures]float64 {
	return [NumFeatures]float64{
		v.AcetonePPB,
		v.EthanolPPB,
		v.ToluenePPB,
		v.AmmoniaPPB,
		v.HydrogenSulfidePPB,
		v.TerpenePPB,
		v.TemperatureC,
		v.HumidityPct,
	}
}

// VectorFromValues builds a FeatureVector from values in canonical order.
func VectorFromValues(values [NumFeatures]float64) FeatureVector {
	return FeatureVector{
		AcetonePPB:         values[0],
		EthanolPPB:         values[1],
		ToluenePPB:         values[2],
		AmmoniaPPB:         values[3],
		HydrogenSulfidePPB: values[4],
		TerpenePPB:         values[5],
		TemperatureC:       values[6],
		HumidityPct:        values[7],
	}
}

// TotalVOC returns the sum of the six VOC channels, excluding the
// environment channels.
func (v FeatureVector) TotalVOC() float64 {
	return v.AcetonePPB + v.EthanolPPB + v.ToluenePPB +
		v.AmmoniaPPB + v.HydrogenSulfidePPB + v.TerpenePPB
}

// Distance returns the Euclidean distance to another vector over all
// channels.
func (v FeatureVector) Distance(other FeatureVector) float64 {
	a := v.Values()
	b := other.Values()
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Environment returns just the two environment channels.
func (v FeatureVector) Environment() Environment {
	return Environment{
		TemperatureC: v.TemperatureC,
		HumidityPct:  v.HumidityPct,
	}
}

// Environment holds the ambient channels captured alongside a VOC reading.
type Environment struct {
	TemperatureC float64 `json:"temperature_c"`
	HumidityPct  float64 `json:"humidity_pct"`
}
