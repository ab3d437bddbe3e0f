package database

import (
	"SessionInsightsServer/internal/model"
	"database/sql"
	"fmt"
	"math"
	"time"
)

// GetInsights runs the aggregate report over customer_sessions. All of the
// grouping happens in SQL; rows with a NULL time_consumed are excluded from
// the time-based aggregates rather than counted as zero.
func (s *service) GetInsights() (model.Insights, error) {
	var insights model.Insights

	err := s.db.QueryRow("SELECT COALESCE(SUM(sessions), 0), COUNT(DISTINCT customer), COUNT(id) FROM customer_sessions").
		Scan(&insights.TotalSessionsReviewed, &insights.TotalCustomers, &insights.TotalRecords)
	if err != nil {
		return insights, fmt.Errorf("totals: %w", err)
	}

	insights.DuplicateCustomers, err = s.duplicateCustomers()
	if err != nil {
		return insights, fmt.Errorf("duplicate customers: %w", err)
	}
	insights.DuplicateCustomersCount = len(insights.DuplicateCustomers)

	insights.RegionDistribution, err = s.distribution("region")
	if err != nil {
		return insights, fmt.Errorf("region distribution: %w", err)
	}
	insights.RegionsCovered = len(insights.RegionDistribution)

	insights.SourceDistribution, err = s.distribution("source")
	if err != nil {
		return insights, fmt.Errorf("source distribution: %w", err)
	}
	insights.SourcesCovered = len(insights.SourceDistribution)

	insights.DestinationDistribution, err = s.distribution("destination")
	if err != nil {
		return insights, fmt.Errorf("destination distribution: %w", err)
	}
	insights.DestinationsCovered = len(insights.DestinationDistribution)

	insights.UploadsByDate, err = s.uploadsByDate()
	if err != nil {
		return insights, fmt.Errorf("uploads by date: %w", err)
	}

	insights.DailyTimeConsumed, err = s.dailyTimeConsumed()
	if err != nil {
		return insights, fmt.Errorf("daily time consumed: %w", err)
	}

	insights.TimeConsumedDistribution, err = s.timeConsumedDistribution()
	if err != nil {
		return insights, fmt.Errorf("time consumed distribution: %w", err)
	}

	err = s.db.QueryRow("SELECT COALESCE(SUM(time_consumed), 0), COUNT(id) FROM customer_sessions WHERE time_consumed IS NOT NULL").
		Scan(&insights.TotalTimeConsumedMinutes, &insights.SessionsWithTimeConsumed)
	if err != nil {
		return insights, fmt.Errorf("time totals: %w", err)
	}
	insights.TotalTimeConsumedHours = roundHours(insights.TotalTimeConsumedMinutes)

	insights.Combinations, err = s.combinations()
	if err != nil {
		return insights, fmt.Errorf("combinations: %w", err)
	}

	return insights, nil
}

func (s *service) duplicateCustomers() ([]model.DuplicateCustomer, error) {
	rows, err := s.db.Query("SELECT customer, COUNT(id) FROM customer_sessions GROUP BY customer HAVING COUNT(id) > 1 ORDER BY customer")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	duplicates := []model.DuplicateCustomer{}
	for rows.Next() {
		var d model.DuplicateCustomer
		if err := rows.Scan(&d.Customer, &d.Occurrences); err != nil {
			return nil, err
		}
		duplicates = append(duplicates, d)
	}
	return duplicates, rows.Err()
}

// distribution groups record counts by one of the fixed grouping columns.
// Callers only pass column names from this package, never user input.
func (s *service) distribution(column string) (map[string]int, error) {
	query := fmt.Sprintf("SELECT %s, COUNT(id) FROM customer_sessions GROUP BY %s", column, column)

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dist := map[string]int{}
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		dist[key] = count
	}
	return dist, rows.Err()
}

func (s *service) uploadsByDate() ([]model.UploadsByDate, error) {
	rows, err := s.db.Query("SELECT uploaded_at::date AS date, COUNT(id) FROM customer_sessions GROUP BY date ORDER BY date")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	uploads := []model.UploadsByDate{}
	for rows.Next() {
		var date time.Time
		var count int
		if err := rows.Scan(&date, &count); err != nil {
			return nil, err
		}
		uploads = append(uploads, model.UploadsByDate{
			Date:  date.Format("2006-01-02"),
			Count: count,
		})
	}
	return uploads, rows.Err()
}

func (s *service) dailyTimeConsumed() ([]model.DailyTimeConsumed, error) {
	rows, err := s.db.Query("SELECT uploaded_at::date AS date, SUM(time_consumed), COUNT(id) FROM customer_sessions WHERE time_consumed IS NOT NULL GROUP BY date ORDER BY date")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	daily := []model.DailyTimeConsumed{}
	for rows.Next() {
		var date time.Time
		var minutes sql.NullInt64
		var count int
		if err := rows.Scan(&date, &minutes, &count); err != nil {
			return nil, err
		}
		daily = append(daily, model.DailyTimeConsumed{
			Date:         date.Format("2006-01-02"),
			TotalMinutes: int(minutes.Int64),
			SessionCount: count,
			Hours:        roundHours(int(minutes.Int64)),
		})
	}
	return daily, rows.Err()
}

func (s *service) timeConsumedDistribution() (map[int]int, error) {
	rows, err := s.db.Query("SELECT time_consumed, COUNT(id) FROM customer_sessions WHERE time_consumed IS NOT NULL GROUP BY time_consumed ORDER BY time_consumed")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dist := map[int]int{}
	for rows.Next() {
		var minutes, count int
		if err := rows.Scan(&minutes, &count); err != nil {
			return nil, err
		}
		dist[minutes] = count
	}
	return dist, rows.Err()
}

func (s *service) combinations() ([]model.Combination, error) {
	rows, err := s.db.Query("SELECT customer, source, destination, COUNT(id) FROM customer_sessions GROUP BY customer, source, destination ORDER BY customer, source, destination")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	combos := []model.Combination{}
	for rows.Next() {
		var c model.Combination
		if err := rows.Scan(&c.Customer, &c.Source, &c.Destination, &c.Count); err != nil {
			return nil, err
		}
		combos = append(combos, c)
	}
	return combos, rows.Err()
}

// roundHours converts minutes to hours rounded to two decimals.
func roundHours(minutes int) float64 {
	return math.Round(float64(minutes)/60*100) / 100
}
