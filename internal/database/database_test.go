package database

import (
	"SessionInsightsServer/internal/model"
	"context"
	"errors"
	"log"
	"os"
	"testing"
	"time"
)

func TestMain(m *testing.M) {
	teardown, err := SetupTestDatabase()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	m.Run()

	if teardown != nil && teardown(context.Background()) != nil {
		log.Fatalf("could not teardown postgres container: %v", err)
	}
}

func testService() Service {
	return New(os.Getenv("SESSIONS_DATABASE_URL"))
}

func newRecord(customer, region string, sessions int, timeConsumed *int) model.NewSessionRecordData {
	return model.NewSessionRecordData{
		Customer:     customer,
		Region:       region,
		Sessions:     sessions,
		Source:       "FB Pages",
		Destination:  "BQ",
		TimeConsumed: timeConsumed,
		Observation:  "test record",
		UploadedAt:   time.Now().UTC(),
	}
}

func intPtr(n int) *int {
	return &n
}

func TestNew(t *testing.T) {
	srv := testService()
	if srv == nil {
		t.Fatal("New() returned nil")
	}
}

func TestCreateSessionRecord(t *testing.T) {
	srv := testService()

	entity, err := srv.CreateSessionRecord(newRecord("create.io", "EU", 5, intPtr(15)))
	if err != nil {
		t.Fatalf("CreateSessionRecord failed: %v\n", err)
	}

	if entity.Id <= 0 {
		t.Errorf("expected a positive id, got %d", entity.Id)
	}
	if entity.Customer != "create.io" || entity.Region != "EU" || entity.Sessions != 5 {
		t.Errorf("unexpected field values: %+v", entity)
	}
	if entity.TimeConsumed == nil || *entity.TimeConsumed != 15 {
		t.Errorf("TimeConsumed: expected 15, got %v", entity.TimeConsumed)
	}
	if entity.CreatedAt.IsZero() {
		t.Error("CreatedAt was not set")
	}
	if entity.HasHighlight {
		t.Error("new records must not be highlighted")
	}
}

func TestCreateSessionRecordWithoutTime(t *testing.T) {
	srv := testService()

	entity, err := srv.CreateSessionRecord(newRecord("notime.io", "EU", 1, nil))
	if err != nil {
		t.Fatalf("CreateSessionRecord failed: %v\n", err)
	}
	if entity.TimeConsumed != nil {
		t.Errorf("TimeConsumed: expected nil, got %d", *entity.TimeConsumed)
	}
}

func TestGetSessionRecord(t *testing.T) {
	srv := testService()

	created, err := srv.CreateSessionRecord(newRecord("fetch.io", "NA", 2, nil))
	if err != nil {
		t.Fatalf("CreateSessionRecord failed: %v\n", err)
	}

	fetched, err := srv.GetSessionRecord(created.Id)
	if err != nil {
		t.Fatalf("GetSessionRecord failed: %v\n", err)
	}
	if fetched.Customer != "fetch.io" {
		t.Errorf("Customer: expected 'fetch.io', got '%s'", fetched.Customer)
	}

	_, err = srv.GetSessionRecord(99999999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestDeleteSessionRecord(t *testing.T) {
	srv := testService()

	created, err := srv.CreateSessionRecord(newRecord("delete.io", "EU", 1, nil))
	if err != nil {
		t.Fatalf("CreateSessionRecord failed: %v\n", err)
	}

	if err := srv.DeleteSessionRecord(created.Id); err != nil {
		t.Fatalf("DeleteSessionRecord failed: %v\n", err)
	}

	// Deleting an unknown id is an error, never a silent no-op.
	if err := srv.DeleteSessionRecord(created.Id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for deleted id, got %v", err)
	}

	if _, err := srv.GetSessionRecord(created.Id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected record to be gone, got %v", err)
	}
}

func TestGetSessionRecordsOrder(t *testing.T) {
	srv := testService()

	older := newRecord("order.io", "EU", 1, nil)
	older.UploadedAt = time.Now().UTC().Add(-48 * time.Hour)
	if _, err := srv.CreateSessionRecord(older); err != nil {
		t.Fatalf("CreateSessionRecord failed: %v\n", err)
	}

	newer := newRecord("order.io", "EU", 1, nil)
	newer.UploadedAt = time.Now().UTC().Add(time.Hour)
	created, err := srv.CreateSessionRecord(newer)
	if err != nil {
		t.Fatalf("CreateSessionRecord failed: %v\n", err)
	}

	records, err := srv.GetSessionRecords()
	if err != nil {
		t.Fatalf("GetSessionRecords failed: %v\n", err)
	}
	if len(records) < 2 {
		t.Fatalf("expected at least 2 records, got %d", len(records))
	}
	if records[0].Id != created.Id {
		t.Errorf("expected newest upload first, got id %d", records[0].Id)
	}
}

func TestGetInsights(t *testing.T) {
	srv := testService()

	baseline, err := srv.GetInsights()
	if err != nil {
		t.Fatalf("GetInsights failed: %v\n", err)
	}

	// Two records for one customer, one for another, 90 tracked minutes.
	inserts := []model.NewSessionRecordData{
		newRecord("insights-dup.io", "insights-region", 2, intPtr(30)),
		newRecord("insights-dup.io", "insights-region", 3, nil),
		newRecord("insights-solo.io", "insights-region", 5, intPtr(60)),
	}
	for _, data := range inserts {
		if _, err := srv.CreateSessionRecord(data); err != nil {
			t.Fatalf("CreateSessionRecord failed: %v\n", err)
		}
	}

	insights, err := srv.GetInsights()
	if err != nil {
		t.Fatalf("GetInsights failed: %v\n", err)
	}

	if got := insights.TotalRecords - baseline.TotalRecords; got != 3 {
		t.Errorf("TotalRecords: expected +3, got +%d", got)
	}
	if got := insights.TotalSessionsReviewed - baseline.TotalSessionsReviewed; got != 10 {
		t.Errorf("TotalSessionsReviewed: expected +10, got +%d", got)
	}
	if got := insights.TotalCustomers - baseline.TotalCustomers; got != 2 {
		t.Errorf("TotalCustomers: expected +2, got +%d", got)
	}

	// insights-dup.io occurs twice and must be reported as a duplicate;
	// insights-solo.io must not.
	if got := insights.DuplicateCustomersCount - baseline.DuplicateCustomersCount; got != 1 {
		t.Errorf("DuplicateCustomersCount: expected +1, got +%d", got)
	}
	foundDup := false
	for _, dup := range insights.DuplicateCustomers {
		if dup.Customer == "insights-solo.io" {
			t.Error("insights-solo.io reported as duplicate")
		}
		if dup.Customer == "insights-dup.io" {
			foundDup = true
			if dup.Occurrences != 2 {
				t.Errorf("insights-dup.io occurrences: expected 2, got %d", dup.Occurrences)
			}
		}
	}
	if !foundDup {
		t.Error("insights-dup.io missing from duplicate customers")
	}

	if insights.RegionDistribution["insights-region"] != 3 {
		t.Errorf("region distribution: expected 3, got %d", insights.RegionDistribution["insights-region"])
	}

	// NULL time consumed is excluded, not counted as zero.
	if got := insights.SessionsWithTimeConsumed - baseline.SessionsWithTimeConsumed; got != 2 {
		t.Errorf("SessionsWithTimeConsumed: expected +2, got +%d", got)
	}
	if got := insights.TotalTimeConsumedMinutes - baseline.TotalTimeConsumedMinutes; got != 90 {
		t.Errorf("TotalTimeConsumedMinutes: expected +90, got +%d", got)
	}
	if insights.TimeConsumedDistribution[30] < 1 {
		t.Error("time consumed distribution missing the 30 minute bucket")
	}

	foundCombo := false
	for _, combo := range insights.Combinations {
		if combo.Customer == "insights-dup.io" && combo.Source == "FB Pages" && combo.Destination == "BQ" {
			foundCombo = true
			if combo.Count != 2 {
				t.Errorf("combination count: expected 2, got %d", combo.Count)
			}
		}
	}
	if !foundCombo {
		t.Error("insights-dup.io combination missing")
	}

	if len(insights.UploadsByDate) == 0 {
		t.Error("uploads by date is empty")
	}
	if len(insights.DailyTimeConsumed) == 0 {
		t.Error("daily time consumed is empty")
	}
}
