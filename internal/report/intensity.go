package report

// ReferenceMaxTotalVOC is the fixed calibration constant for the intensity
// index: the VOC baseline means of a mid-intensity profile sum to roughly
// this order.
const ReferenceMaxTotalVOC = 600.0

// IntensityFromTotalVOC maps a total VOC load to a 0-100 intensity index.
// Total function: always defined, always clamped to [0, 100].
func IntensityFromTotalVOC(totalVOC float64) float64 {
	scaled := totalVOC / ReferenceMaxTotalVOC * 100
	if scaled < 0 {
		return 0.0
	}
	if scaled > 100 {
		return 100.0
	}
	return scaled
}
