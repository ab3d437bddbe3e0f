package model

type DuplicateCustomer struct {
	Customer    string `json:"customer"`
	Occurrences int    `json:"occurrences"`
}

type UploadsByDate struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type DailyTimeConsumed struct {
	Date         string  `json:"date"`
	TotalMinutes int     `json:"total_minutes"`
	SessionCount int     `json:"session_count"`
	Hours        float64 `json:"hours"`
}

type Combination struct {
	Customer    string `json:"customer"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Count       int    `json:"count"`
}

// Insights is the aggregate report computed over all session records.
// Records without a time consumed value are excluded from the time-based
// aggregates, never counted as zero.
type Insights struct {
	TotalSessionsReviewed    int                 `json:"total_sessions_reviewed"`
	TotalCustomers           int                 `json:"total_customers"`
	TotalRecords             int                 `json:"total_records"`
	DuplicateCustomers       []DuplicateCustomer `json:"duplicate_customers"`
	DuplicateCustomersCount  int                 `json:"duplicate_customers_count"`
	RegionDistribution       map[string]int      `json:"region_distribution"`
	RegionsCovered           int                 `json:"regions_covered"`
	SourceDistribution       map[string]int      `json:"source_distribution"`
	SourcesCovered           int                 `json:"sources_covered"`
	DestinationDistribution  map[string]int      `json:"destination_distribution"`
	DestinationsCovered      int                 `json:"destinations_covered"`
	UploadsByDate            []UploadsByDate     `json:"uploads_by_date"`
	SessionsWithTimeConsumed int                 `json:"sessions_with_time_consumed"`
	TimeConsumedDistribution map[int]int         `json:"time_consumed_distribution"`
	DailyTimeConsumed        []DailyTimeConsumed `json:"daily_time_consumed"`
	TotalTimeConsumedMinutes int                 `json:"total_time_consumed_minutes"`
	TotalTimeConsumedHours   float64             `json:"total_time_consumed_hours"`
	Combinations             []Combination       `json:"combinations"`
}
