// Package google builds Google Calendar "add event" deep links. Unlike the
// ICS path there is no authenticated API involved; the user completes the
// import in the browser, one tab per event.
package google

import (
	"fmt"
	"net/url"
	"time"

	"github.com/badhon495/Routine2Calendar/internal/ics"
	"github.com/badhon495/Routine2Calendar/internal/models"
	"github.com/badhon495/Routine2Calendar/internal/schedule"
)

const renderEndpoint = "https://calendar.google.com/calendar/render"

// BuildEventURL returns a prefilled event-template URL for one weekly class
// meeting, projected onto its next occurrence after ref.
//
// The dates parameter carries the Dhaka wall-clock time with a literal Z
// suffix; no offset conversion is applied. Changing that would shift the
// times users see after import, so the format is kept as-is.
//
// The template format has no reminder parameter. The caller is expected to
// surface the notification setting as a manual-setup hint instead.
func BuildEventURL(c models.SelectedCourse, e schedule.Entry, ref time.Time) string {
	start, end := schedule.Occurrence(ref, e)

	title := fmt.Sprintf("%s%s (%s)", c.CourseName, c.EventType.Suffix(), c.RoomNumber)
	details := fmt.Sprintf("Course: %s\nInstructor: %s\nEmail: %s\nRoom: %s",
		c.CourseTitle, c.FacultyName, c.InstructorEmail, c.RoomNumber)

	params := url.Values{}
	params.Set("action", "TEMPLATE")
	params.Set("text", title)
	params.Set("dates", formatStamp(start)+"/"+formatStamp(end))
	params.Set("details", details)
	params.Set("location", ics.CampusLocation)
	params.Set("recur", "RRULE:"+ics.RecurrenceRule)

	return renderEndpoint + "?" + params.Encode()
}

func formatStamp(t time.Time) string {
	return t.Format("20060102T150405") + "Z"
}
