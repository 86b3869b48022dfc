package exporter

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/badhon495/Routine2Calendar/internal/google"
	"github.com/badhon495/Routine2Calendar/internal/ics"
	"github.com/badhon495/Routine2Calendar/internal/models"
	"github.com/badhon495/Routine2Calendar/internal/schedule"
)

// ErrNoCoursesSelected is returned when an export is attempted over an empty
// selection, so callers can show a message instead of persisting an empty but
// valid document.
var ErrNoCoursesSelected = errors.New("no courses selected")

const (
	// ICSFilename is the conventional download name for the calendar file.
	ICSFilename = "BRACU_Schedule.ics"

	// MIMEType is the media type of the generated calendar document.
	MIMEType = "text/calendar"
)

// Exporter turns the current selection into calendar documents, URL lists and
// shareable text. It never touches the filesystem, clipboard or network;
// callers persist or open whatever it returns. The reference clock is
// injectable so exports are reproducible under test.
type Exporter struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewExporter creates an Exporter. A nil now falls back to time.Now.
func NewExporter(logger *slog.Logger, now func() time.Time) *Exporter {
	if now == nil {
		now = time.Now
	}
	return &Exporter{logger: logger, now: now}
}

// ExportICS assembles one VCALENDAR document with one VEVENT per scheduled
// class meeting, in selection order and, within a course, in schedule-token
// order. Courses whose schedule strings yield no parseable entries contribute
// zero events; the rest of the selection is still exported.
func (x *Exporter) ExportICS(selected []models.SelectedCourse, notifyMinutes int) (string, error) {
	if len(selected) == 0 {
		return "", ErrNoCoursesSelected
	}
	ref := x.now()

	var events [][]string
	for _, c := range selected {
		entries := schedule.ParseSchedule(c.ClassSchedule)
		if len(entries) == 0 {
			x.logger.Warn("Course has no parseable schedule, skipping.", "course", c.CourseName, "schedule", c.ClassSchedule)
			continue
		}
		for _, e := range entries {
			events = append(events, ics.BuildEvent(c, e, ref, notifyMinutes))
		}
	}

	x.logger.Info("Built calendar document.", "courses", len(selected), "events", len(events))
	return ics.BuildCalendar(events), nil
}

// ExportGoogleURLs produces one Google Calendar template URL per scheduled
// class meeting, same fan-out and ordering as ExportICS. Each URL is
// independently retriable; opening and throttling the tabs is the caller's
// concern.
func (x *Exporter) ExportGoogleURLs(selected []models.SelectedCourse) ([]string, error) {
	if len(selected) == 0 {
		return nil, ErrNoCoursesSelected
	}
	ref := x.now()

	var urls []string
	for _, c := range selected {
		entries := schedule.ParseSchedule(c.ClassSchedule)
		if len(entries) == 0 {
			x.logger.Warn("Course has no parseable schedule, skipping.", "course", c.CourseName, "schedule", c.ClassSchedule)
			continue
		}
		for _, e := range entries {
			urls = append(urls, google.BuildEventURL(c, e, ref))
		}
	}

	x.logger.Info("Built Google Calendar URLs.", "courses", len(selected), "urls", len(urls))
	return urls, nil
}

// ExportText renders the selection as shareable plain text, using the lenient
// display formatting that preserves unmatched schedule tokens.
func (x *Exporter) ExportText(selected []models.SelectedCourse) (string, error) {
	if len(selected) == 0 {
		return "", ErrNoCoursesSelected
	}

	var b strings.Builder
	b.WriteString("\U0001F4C5 BRACU Class Schedule\n\n")
	for i, c := range selected {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c.CourseName)
		fmt.Fprintf(&b, "   Title: %s\n", c.CourseTitle)
		fmt.Fprintf(&b, "   Instructor: %s\n", c.FacultyName)
		fmt.Fprintf(&b, "   Room: %s\n", c.RoomNumber)
		fmt.Fprintf(&b, "   Schedule: %s\n", schedule.FormatSchedule(c.ClassSchedule))
		fmt.Fprintf(&b, "   Type: %s\n\n", capitalize(string(c.EventType)))
	}
	return b.String(), nil
}

// NotificationText renders the minutes-before-event setting for humans:
// 0 is "at event time", then minutes, hours and days bands.
func NotificationText(minutes int) string {
	switch {
	case minutes == 0:
		return "at event time"
	case minutes < 60:
		return fmt.Sprintf("%d minute%s", minutes, plural(minutes))
	case minutes < 1440:
		h := minutes / 60
		return fmt.Sprintf("%d hour%s", h, plural(h))
	default:
		d := minutes / 1440
		return fmt.Sprintf("%d day%s", d, plural(d))
	}
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
