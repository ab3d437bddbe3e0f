package database

import (
	"SessionInsightsServer/internal/model"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned when a session record id does not exist.
var ErrNotFound = errors.New("session record not found")

// Service represents a service that interacts with a database.
type Service interface {
	// CreateSessionRecord inserts a validated record and returns it with
	// its assigned id and timestamps.
	CreateSessionRecord(data model.NewSessionRecordData) (model.SessionRecordEntity, error)

	// GetSessionRecords returns all records, newest upload first.
	GetSessionRecords() ([]model.SessionRecordEntity, error)

	// GetSessionRecord returns ErrNotFound for an unknown id.
	GetSessionRecord(id int) (model.SessionRecordEntity, error)

	// DeleteSessionRecord returns ErrNotFound for an unknown id; deleting
	// is never a silent no-op.
	DeleteSessionRecord(id int) error

	// GetInsights computes the aggregate report over all records.
	GetInsights() (model.Insights, error)

	// Health returns a map of health status information.
	// The keys and values in the map are service-specific.
	Health() map[string]string

	// Close terminates the database connection.
	// It returns an error if the connection cannot be closed.
	Close() error
}

type service struct {
	db *sql.DB
}

var dbInstance *service

func New(databaseURL string) Service {
	// Reuse Connection
	if dbInstance != nil {
		return dbInstance
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("could not open database")
	}

	if err := Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("could not migrate database")
	}

	dbInstance = &service{db: db}
	return dbInstance
}

const sessionRecordColumns = "id, customer, region, sessions, source, destination, time_consumed, observation, has_highlight, highlight_url, highlight_type, highlight_details, uploaded_at, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSessionRecord(row rowScanner) (model.SessionRecordEntity, error) {
	var entity model.SessionRecordEntity
	var timeConsumed sql.NullInt64
	var highlightURL, highlightType, highlightDetails sql.NullString

	err := row.Scan(
		&entity.Id,
		&entity.Customer,
		&entity.Region,
		&entity.Sessions,
		&entity.Source,
		&entity.Destination,
		&timeConsumed,
		&entity.Observation,
		&entity.HasHighlight,
		&highlightURL,
		&highlightType,
		&highlightDetails,
		&entity.UploadedAt,
		&entity.CreatedAt,
	)
	if err != nil {
		return entity, err
	}

	if timeConsumed.Valid {
		v := int(timeConsumed.Int64)
		entity.TimeConsumed = &v
	}
	if highlightURL.Valid {
		entity.HighlightURL = &highlightURL.String
	}
	if highlightType.Valid {
		entity.HighlightType = &highlightType.String
	}
	if highlightDetails.Valid {
		entity.HighlightDetails = &highlightDetails.String
	}

	return entity, nil
}

func (s *service) CreateSessionRecord(data model.NewSessionRecordData) (model.SessionRecordEntity, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return model.SessionRecordEntity{}, err
	}

	var timeConsumed sql.NullInt64
	if data.TimeConsumed != nil {
		timeConsumed = sql.NullInt64{Int64: int64(*data.TimeConsumed), Valid: true}
	}

	query := "INSERT INTO customer_sessions (customer, region, sessions, source, destination, time_consumed, observation, uploaded_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING " + sessionRecordColumns

	entity, err := scanSessionRecord(tx.QueryRow(query,
		data.Customer,
		data.Region,
		data.Sessions,
		data.Source,
		data.Destination,
		timeConsumed,
		data.Observation,
		data.UploadedAt,
	))
	if err != nil {
		tx.Rollback()
		return model.SessionRecordEntity{}, err
	}

	return entity, tx.Commit()
}

func (s *service) GetSessionRecords() ([]model.SessionRecordEntity, error) {
	query := "SELECT " + sessionRecordColumns + " FROM customer_sessions ORDER BY uploaded_at DESC"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []model.SessionRecordEntity{}
	for rows.Next() {
		entity, err := scanSessionRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, entity)
	}

	return records, rows.Err()
}

func (s *service) GetSessionRecord(id int) (model.SessionRecordEntity, error) {
	query := "SELECT " + sessionRecordColumns + " FROM customer_sessions WHERE id = $1"

	entity, err := scanSessionRecord(s.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return entity, ErrNotFound
	}
	return entity, err
}

func (s *service) DeleteSessionRecord(id int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	res, err := tx.Exec("DELETE FROM customer_sessions WHERE id = $1", id)
	if err != nil {
		tx.Rollback()
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return err
	}

	if rowsAffected == 0 {
		tx.Rollback()
		return ErrNotFound
	}

	return tx.Commit()
}

func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	// Ping the database
	err := s.db.PingContext(ctx)
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	// Database is up, add more statistics
	stats["status"] = "up"
	stats["message"] = "It's healthy"

	// Get database stats (like open connections, in use, idle, etc.)
	dbStats := s.db.Stats()
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)
	stats["wait_duration"] = dbStats.WaitDuration.String()

	if dbStats.OpenConnections > 40 {
		stats["message"] = "The database is experiencing heavy load."
	}
	if dbStats.WaitCount > 1000 {
		stats["message"] = "The database has a high number of wait events, indicating potential bottlenecks."
	}

	return stats
}

// Close closes the database connection.
func (s *service) Close() error {
	log.Info().Msg("disconnected from database")
	return s.db.Close()
}
