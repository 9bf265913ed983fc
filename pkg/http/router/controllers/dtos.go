package controllers

type segmentsRequest struct {
	MinLon          float64 `json:"min_lon" validate:"min=-180,max=180"`
	MinLat          float64 `json:"min_lat" validate:"min=-90,max=90"`
	MaxLon          float64 `json:"max_lon" validate:"min=-180,max=180,gtefield=MinLon"`
	MaxLat          float64 `json:"max_lat" validate:"min=-90,max=90,gtefield=MinLat"`
	SignificantOnly bool    `json:"significant_only"`
	Limit           int     `json:"limit" validate:"min=0,max=100000"`
}

type summaryResponse struct {
	Segments    int `json:"segments"`
	Significant int `json:"significant"`
	FavorA      int `json:"favor_a"`
	FavorB      int `json:"favor_b"`
}

func NewSummaryResponse(segments, significant, favorA, favorB int) summaryResponse {
	return summaryResponse{
		Segments:    segments,
		Significant: significant,
		FavorA:      favorA,
		FavorB:      favorB,
	}
}
