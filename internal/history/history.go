// Package history converts uploaded watch-log files (CSV or XLSX) into typed
// viewing-history entries and serializes them for prompt embedding. The core
// never reads storage itself; this package exists for callers that keep their
// logs in spreadsheets.
package history

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/cinemood/cinemood/internal/recommend"
)

// ImportResult is the outcome of parsing one uploaded file. Rows that cannot
// be coerced into a valid entry are skipped, not fatal: spreadsheet exports
// are messy and a partial import is more useful than none.
type ImportResult struct {
	Entries []recommend.ViewingHistoryEntry `json:"entries"`
	Skipped int                             `json:"skipped"`
}

// ParseUpload dispatches on the uploaded file's extension.
func ParseUpload(filename string, r io.Reader) (ImportResult, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".xlsx"):
		return ParseXLSX(r)
	case strings.HasSuffix(strings.ToLower(filename), ".csv"):
		return ParseCSV(r)
	default:
		return ImportResult{}, fmt.Errorf("unsupported file type %q: want .csv or .xlsx", filename)
	}
}

// ParseCSV reads a watch log in CSV form. The first row must be a header.
func ParseCSV(r io.Reader) (ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return ImportResult{}, fmt.Errorf("parse csv: %w", err)
	}
	return fromRows(rows)
}

// ParseXLSX reads a watch log from the first sheet of an XLSX workbook.
func ParseXLSX(r io.Reader) (ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return ImportResult{}, fmt.Errorf("read xlsx rows: %w", err)
	}
	return fromRows(rows)
}

// Serialize renders entries as the compact JSON the prompt templates embed.
func Serialize(entries []recommend.ViewingHistoryEntry) string {
	if len(entries) == 0 {
		return "[]"
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// findIndex finds the index of the first matching candidate header.
func findIndex(header []string, candidates ...string) int {
	for _, candidate := range candidates {
		for i, item := range header {
			if strings.EqualFold(strings.TrimSpace(item), candidate) {
				return i
			}
		}
	}
	return -1
}

func fromRows(rows [][]string) (ImportResult, error) {
	if len(rows) < 2 {
		return ImportResult{}, fmt.Errorf("file needs a header row and at least one data row")
	}

	header := rows[0]
	titleIdx := findIndex(header, "title", "name", "movie", "show")
	ratingIdx := findIndex(header, "rating", "score", "stars")
	completedIdx := findIndex(header, "completed", "finished", "done")
	moodIdx := findIndex(header, "mood", "mood_at_watch", "moodatwatch")
	timeIdx := findIndex(header, "time_of_day", "timeofday", "daypart")

	var missing []string
	if titleIdx == -1 {
		missing = append(missing, "title")
	}
	if ratingIdx == -1 {
		missing = append(missing, "rating")
	}
	if len(missing) > 0 {
		return ImportResult{}, fmt.Errorf("required column(s) not found: %s", strings.Join(missing, ", "))
	}

	res := ImportResult{Entries: []recommend.ViewingHistoryEntry{}}
	for _, row := range rows[1:] {
		entry, ok := entryFromRow(row, titleIdx, ratingIdx, completedIdx, moodIdx, timeIdx)
		if !ok {
			res.Skipped++
			continue
		}
		res.Entries = append(res.Entries, entry)
	}
	return res, nil
}

func entryFromRow(row []string, titleIdx, ratingIdx, completedIdx, moodIdx, timeIdx int) (recommend.ViewingHistoryEntry, bool) {
	cell := func(idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	title := cell(titleIdx)
	if title == "" {
		return recommend.ViewingHistoryEntry{}, false
	}
	rating, err := strconv.Atoi(cell(ratingIdx))
	if err != nil || rating < 1 || rating > 5 {
		return recommend.ViewingHistoryEntry{}, false
	}

	entry := recommend.ViewingHistoryEntry{
		Title:     title,
		Rating:    rating,
		Completed: parseBool(cell(completedIdx)),
	}
	// Optional tags are kept only when they match the closed enum sets; a
	// misspelled tag drops silently rather than poisoning the entry.
	if m := matchMood(cell(moodIdx)); m != "" {
		entry.MoodAtWatch = m
	}
	if t := matchTimeOfDay(cell(timeIdx)); t != "" {
		entry.TimeOfDayAtWatch = t
	}
	return entry, true
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "yes", "y", "1", "done", "finished":
		return true
	default:
		return false
	}
}

func matchMood(s string) recommend.Mood {
	for _, m := range recommend.Moods {
		if strings.EqualFold(s, string(m)) {
			return m
		}
	}
	return ""
}

func matchTimeOfDay(s string) recommend.TimeOfDay {
	for _, t := range recommend.TimesOfDay {
		if strings.EqualFold(s, string(t)) {
			return t
		}
	}
	return ""
}
