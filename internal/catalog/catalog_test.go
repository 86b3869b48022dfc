package catalog

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/badhon495/Routine2Calendar/internal/models"
)

const sectionsJSON = `[
	{
		"sectionId": 101,
		"courseCode": "CSE110",
		"sectionName": "01",
		"faculties": "NDA",
		"roomName": "10B-18C",
		"courseCredit": 3,
		"capacity": 40,
		"consumedSeat": 35,
		"academicDegree": "UNDERGRADUATE",
		"preRegSchedule": "SUNDAY(8:00 AM-9:20 AM-10B-18C)\nTUESDAY(8:00 AM-9:20 AM-10B-18C)",
		"preRegLabSchedule": ""
	},
	{
		"sectionId": 102,
		"courseCode": "MAT110",
		"sectionName": "02",
		"faculties": "",
		"roomName": "09E-2C",
		"courseCredit": 3,
		"capacity": 35,
		"consumedSeat": 35,
		"preRegSchedule": "MONDAY(2:00 PM-3:20 PM-09E-2C)"
	}
]`

const titlesJSON = `[
	{"courseCode": "CSE110", "courseTitle": "Programming Language I"}
]`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/connect.json":
			io.WriteString(w, sectionsJSON)
		case "/usisdump.json":
			io.WriteString(w, titlesJSON)
		default:
			http.NotFound(w, r)
		}
	}))
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	cache := filepath.Join(t.TempDir(), "course-data.json")
	return NewClient(discardLogger(), srv.URL+"/connect.json", srv.URL+"/usisdump.json", cache)
}

func TestFetch(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	c := newTestClient(t, srv)

	courses, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 2)

	cse := courses[0]
	assert.Equal(t, int64(101), cse.SectionID)
	assert.Equal(t, "CSE110", cse.CourseCode)
	assert.Equal(t, "Programming Language I", cse.CourseTitle)
	assert.Equal(t, "NDA", cse.FacultyName)
	assert.Equal(t, "CSE", cse.Department)
	assert.Equal(t, 5, cse.AvailableSeats())
	assert.Equal(t,
		"Sunday(8:00 AM-9:20 AM-10B-18C),Tuesday(8:00 AM-9:20 AM-10B-18C)",
		cse.ClassSchedule)

	mat := courses[1]
	assert.Equal(t, "MAT110", mat.CourseTitle, "missing title falls back to the course code")
	assert.Equal(t, "TBA", mat.FacultyName, "missing faculty falls back to TBA")
	assert.Equal(t, "Monday(2:00 PM-3:20 PM-09E-2C)", mat.ClassSchedule)
}

func TestLoadUsesFreshCache(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, srv)

	_, err := c.Fetch(context.Background())
	require.NoError(t, err)

	// The upstream is gone; a fresh cache must still satisfy Load.
	srv.Close()

	courses, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, courses, 2)
}

func TestLoadRefetchesStaleCache(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	c := newTestClient(t, srv)

	stale := cacheEnvelope{
		FetchedAt: time.Now().Add(-2 * time.Hour),
		Courses:   []models.Course{{CourseCode: "OLD999"}},
	}
	data, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(c.cachePath, data, 0644))

	courses, err := c.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "CSE110", courses[0].CourseCode)
}

func TestFetchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()
	c := newTestClient(t, srv)

	_, err := c.Fetch(context.Background())
	assert.ErrorContains(t, err, "failed to fetch course sections")
}

func TestClearCache(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	c := newTestClient(t, srv)

	_, err := c.Fetch(context.Background())
	require.NoError(t, err)
	_, err = os.Stat(c.cachePath)
	require.NoError(t, err)

	require.NoError(t, c.ClearCache())
	_, err = os.Stat(c.cachePath)
	assert.True(t, os.IsNotExist(err))

	// Clearing an already-empty cache is not an error.
	assert.NoError(t, c.ClearCache())
}

func TestNormalizeSchedule(t *testing.T) {
	assert.Equal(t, "", normalizeSchedule(""))
	assert.Equal(t,
		"Sunday(8:00 AM-9:20 AM-10B-18C),Tuesday(8:00 AM-9:20 AM)",
		normalizeSchedule("SUNDAY(8:00 AM-9:20 AM-10B-18C)\nTUESDAY(8:00 AM-9:20 AM)"))
	assert.Equal(t, "see department notice", normalizeSchedule("see department notice"))
}

func TestDepartmentFromCode(t *testing.T) {
	assert.Equal(t, "CSE", departmentFromCode("CSE110"))
	assert.Equal(t, "ACT", departmentFromCode("ACT201"))
	assert.Equal(t, "Unknown", departmentFromCode("110"))
}
