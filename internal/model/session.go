package model

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	TimeConsumedMin = 1
	TimeConsumedMax = 120
)

// User-facing validation failures for the form-entry path. The text-entry
// path never raises the time-consumed errors; bad values are dropped there.
var (
	ErrMissingFields          = errors.New("Please fill in all required fields")
	ErrSessionsNotNumeric     = errors.New("Sessions must be a valid number")
	ErrTimeConsumedNotNumeric = errors.New("Time consumed must be a valid number")
	ErrTimeConsumedRange      = errors.New("Time consumed must be between 1 and 120 minutes")
)

type NewSessionRecordData struct {
	Customer     string
	Region       string
	Sessions     int
	Source       string
	Destination  string
	TimeConsumed *int
	Observation  string
	UploadedAt   time.Time
}

type SessionRecordEntity struct {
	Id               int
	Customer         string
	Region           string
	Sessions         int
	Source           string
	Destination      string
	TimeConsumed     *int
	Observation      string
	HasHighlight     bool
	HighlightURL     *string
	HighlightType    *string
	HighlightDetails *string
	UploadedAt       time.Time
	CreatedAt        time.Time
}

type SessionRecordDTO struct {
	Id               int     `json:"id"`
	Customer         string  `json:"customer"`
	Region           string  `json:"region"`
	Sessions         int     `json:"sessions"`
	Source           string  `json:"source"`
	Destination      string  `json:"destination"`
	TimeConsumed     *int    `json:"time_consumed"`
	Observation      string  `json:"observation"`
	HasHighlight     bool    `json:"has_highlight"`
	HighlightURL     *string `json:"highlight_url"`
	HighlightType    *string `json:"highlight_type"`
	HighlightDetails *string `json:"highlight_details"`
	UploadedAt       string  `json:"uploaded_at"`
	CreatedAt        string  `json:"created_at"`
}

func (e SessionRecordEntity) DTO() SessionRecordDTO {
	return SessionRecordDTO{
		Id:               e.Id,
		Customer:         e.Customer,
		Region:           e.Region,
		Sessions:         e.Sessions,
		Source:           e.Source,
		Destination:      e.Destination,
		TimeConsumed:     e.TimeConsumed,
		Observation:      e.Observation,
		HasHighlight:     e.HasHighlight,
		HighlightURL:     e.HighlightURL,
		HighlightType:    e.HighlightType,
		HighlightDetails: e.HighlightDetails,
		UploadedAt:       e.UploadedAt.UTC().Format(time.RFC3339),
		CreatedAt:        e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// UploadSessionDTO is the JSON body for the text-based upload endpoint.
type UploadSessionDTO struct {
	SessionData string `json:"session_data" validate:"required"`
}

// SessionFormDTO holds the raw form fields from the field-based entry page.
// All values arrive as strings; Validate turns them into insertable data.
type SessionFormDTO struct {
	Customer     string `form:"customer"`
	Region       string `form:"region"`
	Sessions     string `form:"sessions"`
	Source       string `form:"source"`
	Destination  string `form:"destination"`
	TimeConsumed string `form:"time_consumed"`
	Observation  string `form:"observation"`
}

// Validate enforces the five required fields, a numeric sessions count and,
// unlike the text-entry path, rejects an out-of-range time consumed value.
func (d SessionFormDTO) Validate() (NewSessionRecordData, error) {
	customer := strings.TrimSpace(d.Customer)
	region := strings.TrimSpace(d.Region)
	sessions := strings.TrimSpace(d.Sessions)
	source := strings.TrimSpace(d.Source)
	destination := strings.TrimSpace(d.Destination)
	timeConsumed := strings.TrimSpace(d.TimeConsumed)
	observation := strings.TrimSpace(d.Observation)

	if customer == "" || region == "" || sessions == "" || source == "" || destination == "" {
		return NewSessionRecordData{}, ErrMissingFields
	}

	sessionsInt, err := strconv.Atoi(sessions)
	if err != nil {
		return NewSessionRecordData{}, ErrSessionsNotNumeric
	}

	var timePtr *int
	if timeConsumed != "" {
		timeInt, err := strconv.Atoi(timeConsumed)
		if err != nil {
			return NewSessionRecordData{}, ErrTimeConsumedNotNumeric
		}
		if timeInt < TimeConsumedMin || timeInt > TimeConsumedMax {
			return NewSessionRecordData{}, ErrTimeConsumedRange
		}
		timePtr = &timeInt
	}

	return NewSessionRecordData{
		Customer:     customer,
		Region:       region,
		Sessions:     sessionsInt,
		Source:       source,
		Destination:  destination,
		TimeConsumed: timePtr,
		Observation:  observation,
		UploadedAt:   time.Now().UTC(),
	}, nil
}
