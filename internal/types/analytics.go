package types

// CategoryCount is one row of the per-category breakdown, sorted by count
// descending in analytics output.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// TimelinePoint is the number of complaints created on one calendar day.
type TimelinePoint struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int64  `json:"count"`
}

// Analytics is the read-side aggregate over the full complaint set.
// AvgResolutionHours is nil when no complaint has been resolved.
type Analytics struct {
	Total              int64            `json:"total"`
	ByStatus           map[string]int64 `json:"byStatus"`
	ByCategory         []CategoryCount  `json:"byCategory"`
	ByPriority         map[string]int64 `json:"byPriority"`
	AvgResolutionHours *float64         `json:"avgResolutionHours"`
	RecentTimeline     []TimelinePoint  `json:"recentTimeline"`
}
