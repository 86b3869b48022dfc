package ics

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/badhon495/Routine2Calendar/internal/models"
	"github.com/badhon495/Routine2Calendar/internal/schedule"
)

func testCourse() models.SelectedCourse {
	return models.SelectedCourse{
		SelectionID:     "11111111-2222-3333-4444-555555555555",
		CourseID:        12345,
		CourseName:      "CSE110",
		CourseTitle:     "Programming Language I",
		FacultyName:     "NDA",
		RoomNumber:      "10B-18C",
		InstructorEmail: "nda@bracu.ac.bd",
		EventType:       models.EventNormal,
		ClassSchedule:   "Sunday(8:00 AM-9:20 AM-10B-18C)",
		SectionName:     "01",
	}
}

func testEntry() schedule.Entry {
	return schedule.Entry{
		Day:   time.Sunday,
		Start: schedule.ClockTime{Hour: 8},
		End:   schedule.ClockTime{Hour: 9, Minute: 20},
	}
}

// 2025-01-15 is a Wednesday, so the next Sunday is 2025-01-19.
func testRef() time.Time {
	return time.Date(2025, time.January, 15, 10, 0, 0, 0, schedule.Dhaka)
}

func TestBuildEvent(t *testing.T) {
	lines := BuildEvent(testCourse(), testEntry(), testRef(), 10)

	require.NotEmpty(t, lines)
	assert.Equal(t, "BEGIN:VEVENT", lines[0])
	assert.Equal(t, "END:VEVENT", lines[len(lines)-1])

	start := time.Date(2025, time.January, 19, 8, 0, 0, 0, schedule.Dhaka)
	assert.Contains(t, lines, fmt.Sprintf("UID:12345-Sunday-%d@routine2calendar.com", start.UnixMilli()))
	assert.Contains(t, lines, "DTSTART;TZID=Asia/Dhaka:20250119T080000")
	assert.Contains(t, lines, "DTEND;TZID=Asia/Dhaka:20250119T092000")
	assert.Contains(t, lines, "RRULE:FREQ=WEEKLY;COUNT=15")
	assert.Contains(t, lines, "SUMMARY:CSE110 (10B-18C)")
	assert.Contains(t, lines, "LOCATION:"+CampusLocation)
	assert.Contains(t, lines, "CATEGORIES:NORMAL")
	assert.Contains(t, lines, "STATUS:CONFIRMED")
	assert.Contains(t, lines, "TRANSP:OPAQUE")
	assert.Contains(t, lines, "TRIGGER:-PT10M")
	assert.Contains(t, lines, "BEGIN:VALARM")
}

func TestBuildEventDeterministic(t *testing.T) {
	first := BuildEvent(testCourse(), testEntry(), testRef(), 10)
	second := BuildEvent(testCourse(), testEntry(), testRef(), 10)
	assert.Equal(t, first, second)
}

func TestBuildEventNoAlarmWhenDisabled(t *testing.T) {
	lines := BuildEvent(testCourse(), testEntry(), testRef(), 0)
	assert.NotContains(t, lines, "BEGIN:VALARM")
	assert.NotContains(t, lines, "ACTION:DISPLAY")
}

func TestBuildEventLabSuffix(t *testing.T) {
	c := testCourse()
	c.CourseName = "CSE110"
	c.RoomNumber = "Lab TBA"
	c.EventType = models.EventLab

	lines := BuildEvent(c, testEntry(), testRef(), 0)
	assert.Contains(t, lines, "SUMMARY:CSE110_Lab (Lab TBA)")
	assert.Contains(t, lines, "CATEGORIES:LAB")
}

func TestBuildEventDescriptionEscaped(t *testing.T) {
	c := testCourse()
	c.FacultyName = "Doe, Jane"

	lines := BuildEvent(c, testEntry(), testRef(), 0)

	var description string
	for _, line := range lines {
		if strings.HasPrefix(line, "DESCRIPTION:") {
			description = line
			break
		}
	}
	require.NotEmpty(t, description)
	assert.Contains(t, description, `Course: Programming Language I\nInstructor: Doe\, Jane`)
	assert.Contains(t, description, `Section: 01`)
}

func TestRecurrenceRule(t *testing.T) {
	assert.Equal(t, "FREQ=WEEKLY;COUNT=15", RecurrenceRule)
}

func TestEscapeText(t *testing.T) {
	assert.Equal(t, `a\,b`, EscapeText("a,b"))
	assert.Equal(t, `a\;b`, EscapeText("a;b"))
	assert.Equal(t, `a\nb`, EscapeText("a\nb"))
	assert.Equal(t, `a\\b`, EscapeText(`a\b`))
	// Escaping the backslash first keeps already-inserted escapes single.
	assert.Equal(t, `a\\\,b`, EscapeText(`a\,b`))
}

func TestBuildCalendar(t *testing.T) {
	doc := BuildCalendar([][]string{BuildEvent(testCourse(), testEntry(), testRef(), 10)})

	assert.True(t, strings.HasPrefix(doc, "BEGIN:VCALENDAR\r\nVERSION:2.0\r\n"))
	assert.True(t, strings.HasSuffix(doc, "END:VCALENDAR"))
	assert.Contains(t, doc, "PRODID:-//Routine2Calendar//BRACU Schedule//EN")
	assert.Contains(t, doc, "X-WR-CALNAME:BRACU Schedule")
	assert.Contains(t, doc, "BEGIN:VTIMEZONE\r\nTZID:Asia/Dhaka")
	assert.Contains(t, doc, "TZOFFSETTO:+0600")
	assert.NotContains(t, doc, "\n\r") // CRLF endings only
}

func TestBuildCalendarEmpty(t *testing.T) {
	doc := BuildCalendar(nil)
	assert.True(t, strings.HasPrefix(doc, "BEGIN:VCALENDAR"))
	assert.True(t, strings.HasSuffix(doc, "END:VCALENDAR"))
	assert.NotContains(t, doc, "BEGIN:VEVENT")
}
