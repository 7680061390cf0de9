package models

// WindowRequest carries an optional trailing-window override.
type WindowRequest struct {
	Window int `query:"window" default:"30" validate:"gte=5,lte=365"`
}

// RecalculateItemsRequest selects a subset of items for recomputation.
type RecalculateItemsRequest struct {
	IDs    []string `json:"ids" validate:"required,min=1,dive,required"`
	Window int      `json:"window" default:"30" validate:"gte=5,lte=365"`
}

// RecommendationsRequest bounds the recommendation listing.
type RecommendationsRequest struct {
	Limit int `query:"limit" default:"10" validate:"gte=1,lte=100"`
}
