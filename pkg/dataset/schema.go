package dataset

// Schema describes the structure of a dataset.
type Schema struct {
	Names []string `json:"names"`
	Kinds []Kind   `json:"kinds"`
}

// MarshalText lets Kind appear by name in JSON reports.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
