package scent

// Reading is one labeled sensor capture. Produced fresh per capture and
// never mutated afterwards.
type Reading struct {
	Features    FeatureVector `json:"features"`
	ScentFamily string        `json:"scent_family"`
}

// Dataset is an ordered sequence of labeled readings.
type Dataset []Reading

// Labels returns the distinct labels present in the dataset, in first-seen
// order.
func (d Dataset) Labels() []string {
	seen := make(map[string]bool, 8)
	labels := make([]string, 0, 8)
	for _, row := range d {
		if !seen[row.ScentFamily] {
			seen[row.ScentFamily] = true
			labels = append(labels, row.ScentFamily)
		}
	}
	return labels
}
