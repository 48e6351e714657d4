package domain

// Listing is a normalized product record from one source.
// Adapters build it once and it is never mutated afterwards.
// Prices are whole currency units (yen in the live backends);
// a rating of 0 means "unknown" so ranking always has a total order.
type Listing struct {
	Name   string   `json:"name"`
	Price  int      `json:"price"`
	Rating float64  `json:"rating"`
	URL    string   `json:"url"`
	Image  string   `json:"image"`
	Source SourceID `json:"source"`
}

// RankedResult is a Listing plus the generated justification for it.
// ExplanationOK is false when the explanation call failed for this item;
// the listing fields stay valid either way.
type RankedResult struct {
	Listing
	Explanation   string `json:"explanation"`
	ExplanationOK bool   `json:"explanation_ok"`
}
