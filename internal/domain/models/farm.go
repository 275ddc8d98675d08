package models

// Farm is a cultivated plot tracked by the bookkeeping client.
type Farm struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Location   string  `json:"location"`
	Crop       string  `json:"crop"`
	Area       float64 `json:"area"`
	SowingDate *Date   `json:"sowingDate,omitempty"`
}

// FarmPayload is the create/update body sent to the ledger API.
type FarmPayload struct {
	Name       string  `json:"name"`
	Location   string  `json:"location"`
	Crop       string  `json:"crop"`
	Area       float64 `json:"area"`
	SowingDate *Date   `json:"sowingDate,omitempty"`
}
