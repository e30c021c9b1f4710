package dto

// SelectionsInput is the request body of the availability and resolve
// endpoints. Selected is a legacy alias kept for older clients.
type SelectionsInput struct {
	Selections map[string]string `json:"selections"`
	Selected   map[string]string `json:"selected"`
}

// Pairs returns whichever selection map the caller supplied.
func (in *SelectionsInput) Pairs() map[string]string {
	if in == nil {
		return nil
	}
	if len(in.Selections) > 0 {
		return in.Selections
	}
	return in.Selected
}

type ResolveResult struct {
	Found  bool              `json:"found"`
	SKU    string            `json:"sku,omitempty"`
	Price  float64           `json:"price"`
	Stock  int64             `json:"stock"`
	Attrs  map[string]string `json:"attrs,omitempty"`
	Direct bool              `json:"direct"`
}
