// Package parser extracts structured session records from the semi-structured
// text format used for pasted uploads:
//
//	Customer: mediconas.cz [15 mins]
//	Region: EU
//	Sessions: 5
//	Source: FB Pages
//	Destination: BQ
//	Observation: ...
//
// Labels are matched case-insensitively at the start of a line. The first
// matching line wins for each field. Everything is line-anchored except the
// observation, which runs to the end of the input.
package parser

import (
	"errors"
	"strconv"
	"strings"
)

// ErrNoMatch is returned when one or more required fields are absent.
// Use MissingFields to find out which ones for a user-facing message.
var ErrNoMatch = errors.New("session data does not match the expected format")

// RequiredFields lists the fields that must be present for a parse to
// succeed, in reporting order.
var RequiredFields = []string{"customer", "region", "sessions", "source", "destination"}

type ParsedSession struct {
	Customer     string
	Region       string
	Sessions     int
	Source       string
	Destination  string
	TimeConsumed *int
	Observation  string
}

// Parse returns the structured session data found in text, or ErrNoMatch if
// any required field is missing. A time consumed value outside [1,120] or
// that is not numeric is dropped silently; it never fails the parse.
func Parse(text string) (*ParsedSession, error) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return nil, ErrNoMatch
	}

	customer, ok := customerValue(lines)
	if !ok {
		return nil, ErrNoMatch
	}
	region, ok := fieldValue(lines, "region")
	if !ok {
		return nil, ErrNoMatch
	}
	sessions, ok := sessionsValue(lines)
	if !ok {
		return nil, ErrNoMatch
	}
	source, ok := fieldValue(lines, "source")
	if !ok {
		return nil, ErrNoMatch
	}
	destination, ok := fieldValue(lines, "destination")
	if !ok {
		return nil, ErrNoMatch
	}

	return &ParsedSession{
		Customer:     customer,
		Region:       region,
		Sessions:     sessions,
		Source:       source,
		Destination:  destination,
		TimeConsumed: timeConsumedValue(lines),
		Observation:  observationValue(lines),
	}, nil
}

// MissingFields re-runs the individual field checks and reports which
// required fields could not be found, in RequiredFields order.
func MissingFields(text string) []string {
	lines := splitLines(text)

	missing := []string{}
	for _, field := range RequiredFields {
		var ok bool
		switch field {
		case "customer":
			_, ok = customerValue(lines)
		case "sessions":
			_, ok = sessionsValue(lines)
		default:
			_, ok = fieldValue(lines, field)
		}
		if !ok {
			missing = append(missing, field)
		}
	}
	return missing
}

// splitLines normalizes line endings and trims surrounding whitespace.
// Empty input yields no lines.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// labelOf splits a line into its label and value parts. The label is
// lowercased with internal whitespace removed, so "Time Consumed" and
// "TimeConsumed" compare equal.
func labelOf(line string) (label, value string, ok bool) {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return "", "", false
	}
	label = strings.ToLower(strings.TrimSpace(line[:idx]))
	label = strings.Join(strings.Fields(label), "")
	return label, strings.TrimSpace(line[idx+1:]), true
}

// fieldValue finds the first line labeled with field and returns its
// non-empty value.
func fieldValue(lines []string, field string) (string, bool) {
	for _, line := range lines {
		label, value, ok := labelOf(line)
		if ok && label == field && value != "" {
			return value, true
		}
	}
	return "", false
}

// customerValue strips an optional trailing bracketed annotation such as
// "[15 mins]" from the customer name. The annotation is only stripped when
// something remains in front of it.
func customerValue(lines []string) (string, bool) {
	value, ok := fieldValue(lines, "customer")
	if !ok {
		return "", false
	}
	if strings.HasSuffix(value, "]") {
		if idx := strings.LastIndexByte(value, '['); idx >= 0 {
			if stripped := strings.TrimSpace(value[:idx]); stripped != "" {
				value = stripped
			}
		}
	}
	return value, true
}

// sessionsValue requires the sessions value to consist of digits only.
// A malformed value counts as a missing field, not a silent default.
func sessionsValue(lines []string) (int, bool) {
	value, ok := fieldValue(lines, "sessions")
	if !ok || !isDigits(value) {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}

// timeConsumedValue looks for a dedicated "Time Consumed: N mins" line
// first, then for a bracketed annotation on the customer line. Values
// outside [1,120] are discarded.
func timeConsumedValue(lines []string) *int {
	if value, ok := fieldValue(lines, "timeconsumed"); ok {
		if n, ok := parseMinutes(value); ok {
			return acceptMinutes(n)
		}
	}

	for _, line := range lines {
		label, value, ok := labelOf(line)
		if !ok || label != "customer" {
			continue
		}
		// First bracket on the line holding a plain minutes value wins.
		rest := value
		for {
			open := strings.IndexByte(rest, '[')
			if open < 0 {
				break
			}
			closing := strings.IndexByte(rest[open:], ']')
			if closing < 0 {
				break
			}
			if n, ok := parseMinutes(rest[open+1 : open+closing]); ok {
				return acceptMinutes(n)
			}
			rest = rest[open+closing+1:]
		}
		break
	}
	return nil
}

// parseMinutes accepts "15", "15 mins", "15min" or "15 minutes".
func parseMinutes(s string) (int, bool) {
	s = strings.TrimSpace(s)
	digits := s
	for _, unit := range []string{"minutes", "minute", "mins", "min"} {
		if trimmed, found := strings.CutSuffix(strings.ToLower(s), unit); found {
			digits = strings.TrimSpace(trimmed)
			break
		}
	}
	if !isDigits(digits) {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

func acceptMinutes(n int) *int {
	if n < 1 || n > 120 {
		return nil
	}
	return &n
}

// observationValue captures everything from the first observation line to
// the end of the input, trimmed. A missing label yields an empty string.
func observationValue(lines []string) string {
	for i, line := range lines {
		label, value, ok := labelOf(line)
		if !ok || label != "observation" {
			continue
		}
		parts := append([]string{value}, lines[i+1:]...)
		return strings.TrimSpace(strings.Join(parts, "\n"))
	}
	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
