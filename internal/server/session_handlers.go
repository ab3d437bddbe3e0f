package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"SessionInsightsServer/internal/database"
	"SessionInsightsServer/internal/model"
	"SessionInsightsServer/internal/parser"
)

func recordFromParsed(parsed *parser.ParsedSession) model.NewSessionRecordData {
	return model.NewSessionRecordData{
		Customer:     parsed.Customer,
		Region:       parsed.Region,
		Sessions:     parsed.Sessions,
		Source:       parsed.Source,
		Destination:  parsed.Destination,
		TimeConsumed: parsed.TimeConsumed,
		Observation:  parsed.Observation,
		UploadedAt:   time.Now().UTC(),
	}
}

// formUploadHandler is the field-based entry path. Unlike the text path,
// an out-of-range time consumed value blocks the submission here.
func (s *Server) formUploadHandler(c echo.Context) error {
	var dto model.SessionFormDTO
	if err := c.Bind(&dto); err != nil {
		return redirectWith(c, "/input", "error", "Could not read form data")
	}

	data, err := dto.Validate()
	if err != nil {
		return redirectWith(c, "/input", "error", err.Error())
	}

	entity, err := s.db.CreateSessionRecord(data)
	if err != nil {
		log.Error().Err(err).Msg("could not store session record")
		return redirectWith(c, "/input", "error", "Error uploading data")
	}

	return redirectWith(c, "/input", "message", fmt.Sprintf("Session data for %s uploaded successfully!", entity.Customer))
}

// uploadHandler is the text-based entry path for pasted session blocks.
func (s *Server) uploadHandler(c echo.Context) error {
	text := strings.TrimSpace(c.FormValue("session_data"))
	if text == "" {
		return redirectWith(c, "/", "error", "Please provide session data")
	}

	parsed, err := parser.Parse(text)
	if err != nil {
		msg := "Failed to parse session data. Please check the format."
		if missing := parser.MissingFields(text); len(missing) > 0 {
			msg = fmt.Sprintf("Failed to parse session data. Missing fields: %s. Please check the format.", strings.Join(missing, ", "))
		}
		return redirectWith(c, "/", "error", msg)
	}

	if _, err := s.db.CreateSessionRecord(recordFromParsed(parsed)); err != nil {
		log.Error().Err(err).Msg("could not store session record")
		return redirectWith(c, "/", "error", "Error uploading data")
	}

	return redirectWith(c, "/", "message", "Session data uploaded successfully!")
}

func (s *Server) apiUploadHandler(c echo.Context) error {
	var dto model.UploadSessionDTO
	if err := c.Bind(&dto); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	if err := c.Validate(&dto); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No session data provided")
	}

	parsed, err := parser.Parse(dto.SessionData)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to parse session data")
	}

	entity, err := s.db.CreateSessionRecord(recordFromParsed(parsed))
	if err != nil {
		log.Error().Err(err).Msg("could not store session record")
		return echo.NewHTTPError(http.StatusInternalServerError, "Could not store session record")
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"data":    entity.DTO(),
	})
}

func (s *Server) apiInsightsHandler(c echo.Context) error {
	insights, err := s.db.GetInsights()
	if err != nil {
		log.Error().Err(err).Msg("could not compute insights")
		return echo.NewHTTPError(http.StatusInternalServerError, "Could not compute insights")
	}

	return c.JSON(http.StatusOK, insights)
}

func (s *Server) apiSessionsHandler(c echo.Context) error {
	records, err := s.db.GetSessionRecords()
	if err != nil {
		log.Error().Err(err).Msg("could not list session records")
		return echo.NewHTTPError(http.StatusInternalServerError, "Could not list session records")
	}

	dtos := make([]model.SessionRecordDTO, len(records), len(records))
	for i, record := range records {
		dtos[i] = record.DTO()
	}

	return c.JSON(http.StatusOK, dtos)
}

func (s *Server) apiGetSessionHandler(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Session id must be a number")
	}

	entity, err := s.db.GetSessionRecord(id)
	if errors.Is(err, database.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "No session record found with provided id")
	}
	if err != nil {
		log.Error().Err(err).Int("id", id).Msg("could not get session record")
		return echo.NewHTTPError(http.StatusInternalServerError, "Could not get session record")
	}

	return c.JSON(http.StatusOK, entity.DTO())
}

func (s *Server) apiDeleteSessionHandler(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Session id must be a number")
	}

	err = s.db.DeleteSessionRecord(id)
	if errors.Is(err, database.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "No session record found with provided id")
	}
	if err != nil {
		log.Error().Err(err).Int("id", id).Msg("could not delete session record")
		return echo.NewHTTPError(http.StatusInternalServerError, "Could not delete session record")
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
