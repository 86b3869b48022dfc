// Package catalog fetches the university course feed and maps it into the
// internal Course model. Results are cached on disk so repeated commands do
// not hammer the upstream CDN.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/badhon495/Routine2Calendar/internal/models"
	"github.com/badhon495/Routine2Calendar/internal/schedule"
)

const (
	defaultSectionsURL = "https://usis-cdn.eniamza.com/connect.json"
	defaultTitlesURL   = "https://usis-cdn.eniamza.com/usisdump.json"

	defaultCacheFile = "course-data.json"
	cacheTTL         = time.Hour
)

// sectionRecord mirrors one entry of the upstream section feed.
type sectionRecord struct {
	SectionID           int64   `json:"sectionId"`
	CourseCode          string  `json:"courseCode"`
	SectionName         string  `json:"sectionName"`
	Faculties           string  `json:"faculties"`
	RoomName            string  `json:"roomName"`
	CourseCredit        float64 `json:"courseCredit"`
	Capacity            int     `json:"capacity"`
	ConsumedSeat        int     `json:"consumedSeat"`
	AcademicDegree      string  `json:"academicDegree"`
	LabName             string  `json:"labName"`
	LabRoomName         string  `json:"labRoomName"`
	PreRegSchedule      string  `json:"preRegSchedule"`
	PreRegLabSchedule   string  `json:"preRegLabSchedule"`
	PrerequisiteCourses string  `json:"prerequisiteCourses"`
}

// titleRecord mirrors one entry of the course-title dump.
type titleRecord struct {
	CourseCode  string `json:"courseCode"`
	CourseTitle string `json:"courseTitle"`
}

// cacheEnvelope is the on-disk cache shape.
type cacheEnvelope struct {
	FetchedAt time.Time       `json:"fetchedAt"`
	Courses   []models.Course `json:"courses"`
}

// Client fetches and caches the course catalog.
type Client struct {
	logger      *slog.Logger
	httpClient  *http.Client
	sectionsURL string
	titlesURL   string
	cachePath   string
}

// NewClient creates a catalog client. Empty URL or cache-path arguments fall
// back to the published CDN endpoints and the default cache file.
func NewClient(logger *slog.Logger, sectionsURL, titlesURL, cachePath string) *Client {
	if sectionsURL == "" {
		sectionsURL = defaultSectionsURL
	}
	if titlesURL == "" {
		titlesURL = defaultTitlesURL
	}
	if cachePath == "" {
		cachePath = defaultCacheFile
	}
	return &Client{
		logger:      logger,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		sectionsURL: sectionsURL,
		titlesURL:   titlesURL,
		cachePath:   cachePath,
	}
}

// Load returns the cached catalog when it is younger than one hour, otherwise
// fetches a fresh copy and rewrites the cache.
func (c *Client) Load(ctx context.Context) ([]models.Course, error) {
	if env, err := c.readCache(); err == nil {
		age := time.Since(env.FetchedAt)
		if age < cacheTTL {
			c.logger.Debug("Using cached catalog.", "age", age, "count", len(env.Courses))
			return env.Courses, nil
		}
		c.logger.Info("Catalog cache is stale, refetching.", "age", age)
	}
	return c.Fetch(ctx)
}

// Fetch downloads both upstream feeds, joins titles onto sections by course
// code, and caches the mapped result.
func (c *Client) Fetch(ctx context.Context) ([]models.Course, error) {
	var sections []sectionRecord
	if err := c.getJSON(ctx, c.sectionsURL, &sections); err != nil {
		return nil, fmt.Errorf("failed to fetch course sections: %w", err)
	}

	var titles []titleRecord
	if err := c.getJSON(ctx, c.titlesURL, &titles); err != nil {
		return nil, fmt.Errorf("failed to fetch course titles: %w", err)
	}

	titleByCode := make(map[string]string, len(titles))
	for _, t := range titles {
		if t.CourseCode != "" && t.CourseTitle != "" {
			titleByCode[t.CourseCode] = t.CourseTitle
		}
	}

	courses := make([]models.Course, 0, len(sections))
	for _, s := range sections {
		courses = append(courses, mapCourse(s, titleByCode))
	}

	c.logger.Info("Fetched course catalog.", "sections", len(courses))

	if err := c.writeCache(courses); err != nil {
		// A broken cache only costs a refetch next time.
		c.logger.Warn("Failed to write catalog cache.", "error", err)
	}
	return courses, nil
}

// ClearCache removes the on-disk catalog cache.
func (c *Client) ClearCache() error {
	if err := os.Remove(c.cachePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove catalog cache: %w", err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s from %s", resp.Status, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) readCache() (cacheEnvelope, error) {
	var env cacheEnvelope
	data, err := os.ReadFile(c.cachePath)
	if err != nil {
		return env, err
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return env, err
	}
	return env, nil
}

func (c *Client) writeCache(courses []models.Course) error {
	data, err := json.Marshal(cacheEnvelope{FetchedAt: time.Now(), Courses: courses})
	if err != nil {
		return err
	}
	return os.WriteFile(c.cachePath, data, 0644)
}

// mapCourse converts an upstream section record into the internal model.
func mapCourse(s sectionRecord, titleByCode map[string]string) models.Course {
	title := titleByCode[s.CourseCode]
	if title == "" {
		title = s.CourseCode
	}
	faculty := s.Faculties
	if faculty == "" {
		faculty = "TBA"
	}
	return models.Course{
		SectionID:     s.SectionID,
		CourseCode:    s.CourseCode,
		CourseTitle:   title,
		FacultyName:   faculty,
		Department:    departmentFromCode(s.CourseCode),
		ClassSchedule: normalizeSchedule(s.PreRegSchedule),
		LabSchedule:   normalizeSchedule(s.PreRegLabSchedule),
		Credit:        s.CourseCredit,
		Capacity:      s.Capacity,
		ConsumedSeats: s.ConsumedSeat,
		SectionName:   s.SectionName,
		RoomName:      s.RoomName,
		LabName:       s.LabName,
		LabRoomName:   s.LabRoomName,
		Degree:        s.AcademicDegree,
		Prerequisites: s.PrerequisiteCourses,
	}
}

// normalizeSchedule converts the upstream newline-separated, upper-cased
// schedule ("SUNDAY(8:00 AM-9:20 AM-10B-18C)\nTUESDAY(...)") into the
// canonical comma-separated form with normalized day casing. Lines that do
// not match the day/time grammar pass through untouched.
func normalizeSchedule(raw string) string {
	if raw == "" {
		return ""
	}
	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		open := strings.IndexByte(line, '(')
		end := strings.LastIndexByte(line, ')')
		if open <= 0 || end < open {
			out = append(out, line)
			continue
		}
		day := dayWord(line[:open])
		if day == "" {
			out = append(out, line)
			continue
		}
		out = append(out, schedule.NormalizeDay(day)+line[open:end+1])
	}
	return strings.Join(out, ",")
}

// dayWord returns the run of word characters at the end of s, the day name
// immediately preceding the opening parenthesis.
func dayWord(s string) string {
	i := len(s)
	for i > 0 {
		b := s[i-1]
		if b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' {
			i--
			continue
		}
		break
	}
	return s[i:]
}

// departmentFromCode derives the department tag from the non-numeric prefix
// of a course code.
func departmentFromCode(code string) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return -1
		}
		return r
	}, code)
	if prefix == "" {
		return "Unknown"
	}
	return prefix
}
