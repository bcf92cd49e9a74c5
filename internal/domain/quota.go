package domain

// QuotaResult is the outcome of an atomic daily-view check-and-increment.
type QuotaResult struct {
	Allowed   bool `json:"allowed"`
	Remaining int  `json:"remaining"`
}

// AgeFilter is the one filter freemium viewers may still adjust.
type AgeFilter struct {
	Adjustable bool `json:"adjustable"`
	Min        int  `json:"min"`
	Max        int  `json:"max"`
}

// CountryFilter is fixed to the viewer's home country on the freemium tier.
// Value is empty and the control disabled when the home country is unknown,
// so an incomplete freemium profile never falls through to "any country".
type CountryFilter struct {
	Adjustable bool   `json:"adjustable"`
	Value      string `json:"value"`
}

// FilterSet describes which search filters the viewer may use and with what
// constraints.
type FilterSet struct {
	Country   CountryFilter `json:"country"`
	Ethnicity bool          `json:"ethnicity_adjustable"`
	Sect      bool          `json:"sect_adjustable"`
	Height    bool          `json:"height_adjustable"`
	Age       AgeFilter     `json:"age"`
}
