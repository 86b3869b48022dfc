package ics

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/badhon495/Routine2Calendar/internal/models"
	"github.com/badhon495/Routine2Calendar/internal/schedule"
)

const (
	// TimezoneID names the single zone every DTSTART/DTEND is tagged with.
	// It must match the VTIMEZONE block in the calendar preamble.
	TimezoneID = "Asia/Dhaka"

	// CampusLocation is the fixed campus address stamped on every event.
	CampusLocation = "BRAC University, Kha 224, Bir Uttam Rafiqul Islam Ave, Dhaka 1212"

	uidDomain = "routine2calendar.com"

	// termWeeks is one academic term. Policy constant, not configurable.
	termWeeks = 15
)

// RecurrenceRule is the weekly recurrence covering one term, shared by the
// ICS and Google Calendar generators.
var RecurrenceRule = weeklyTermRule()

func weeklyTermRule() string {
	opt := rrule.ROption{Freq: rrule.WEEKLY, Count: termWeeks}
	return opt.RRuleString()
}

// BuildEvent renders one VEVENT block for a single weekly class meeting,
// projected onto its next occurrence after ref. Identical inputs yield
// byte-identical lines, UID included, so re-exporting an unchanged selection
// does not fragment event identity in the importing calendar.
func BuildEvent(c models.SelectedCourse, e schedule.Entry, ref time.Time, notifyMinutes int) []string {
	start, end := schedule.Occurrence(ref, e)

	summary := fmt.Sprintf("%s%s (%s)", c.CourseName, c.EventType.Suffix(), c.RoomNumber)
	description := EscapeText(strings.Join([]string{
		"Course: " + c.CourseTitle,
		"Instructor: " + c.FacultyName,
		"Email: " + c.InstructorEmail,
		"Room: " + c.RoomNumber,
		"Section: " + c.SectionName,
	}, "\n"))

	uid := fmt.Sprintf("%d-%s-%d@%s", c.CourseID, e.Day, start.UnixMilli(), uidDomain)

	lines := []string{
		"BEGIN:VEVENT",
		"UID:" + uid,
		"DTSTART;TZID=" + TimezoneID + ":" + formatLocal(start),
		"DTEND;TZID=" + TimezoneID + ":" + formatLocal(end),
		"RRULE:" + RecurrenceRule,
		"SUMMARY:" + summary,
		"DESCRIPTION:" + description,
		"LOCATION:" + CampusLocation,
		"CATEGORIES:" + strings.ToUpper(string(c.EventType)),
		"STATUS:CONFIRMED",
		"TRANSP:OPAQUE",
	}

	if notifyMinutes > 0 {
		lines = append(lines,
			"BEGIN:VALARM",
			"ACTION:DISPLAY",
			"DESCRIPTION:Reminder: "+summary,
			fmt.Sprintf("TRIGGER:-PT%dM", notifyMinutes),
			"END:VALARM",
		)
	}

	return append(lines, "END:VEVENT")
}

// BuildCalendar wraps pre-rendered VEVENT blocks into a complete VCALENDAR
// document with CRLF line endings, per RFC 5545.
func BuildCalendar(events [][]string) string {
	lines := calendarHeader()
	for _, ev := range events {
		lines = append(lines, ev...)
	}
	lines = append(lines, "END:VCALENDAR")
	return strings.Join(lines, "\r\n")
}

// calendarHeader is the fixed document preamble. The VTIMEZONE block declares
// the UTC+6 standard offset the per-event TZID parameters refer to.
func calendarHeader() []string {
	return []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Routine2Calendar//BRACU Schedule//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"X-WR-CALNAME:BRACU Schedule",
		"X-WR-TIMEZONE:" + TimezoneID,
		"X-WR-CALDESC:BRAC University Class Schedule",
		"BEGIN:VTIMEZONE",
		"TZID:" + TimezoneID,
		"BEGIN:STANDARD",
		"DTSTART:20230101T000000",
		"TZOFFSETFROM:+0600",
		"TZOFFSETTO:+0600",
		"TZNAME:BST",
		"END:STANDARD",
		"END:VTIMEZONE",
	}
}

// EscapeText escapes an iCalendar TEXT value per RFC 5545 section 3.3.11.
// Backslashes must be replaced before commas and semicolons so the escape
// character itself is never escaped twice; newlines become the literal
// two-character sequence.
func EscapeText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

// formatLocal renders a wall-clock timestamp without zone designator, for use
// with a TZID parameter.
func formatLocal(t time.Time) string {
	return t.Format("20060102T150405")
}
