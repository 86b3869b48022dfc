package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/badhon495/Routine2Calendar/internal/models"
	"github.com/badhon495/Routine2Calendar/internal/schedule"
)

const (
	defaultStateFile     = "selected-courses.json"
	defaultNotifyMinutes = 10

	emailDomain  = "bracu.ac.bd"
	defaultEmail = "instructor@" + emailDomain
)

var (
	// ErrAlreadySelected signals a duplicate add of the same section/lab.
	ErrAlreadySelected = errors.New("course already selected")
	// ErrNotFound signals that no selection matches the given reference.
	ErrNotFound = errors.New("selection not found")
	// ErrNoLab signals an AddLab on a section without a lab schedule.
	ErrNoLab = errors.New("course has no lab schedule")
)

// state is the on-disk shape of a session.
type state struct {
	Selected      []models.SelectedCourse `json:"selectedCourses"`
	NotifyMinutes int                     `json:"notificationMinutes"`
}

// Session owns the ordered selection list and the global notification
// setting. It is an explicit object handed to callers, not a process-wide
// singleton; exporters read the list and never mutate it.
type Session struct {
	logger *slog.Logger
	path   string
	state  state
}

// Load reads the session from the JSON state file, starting fresh when none
// exists yet.
func Load(logger *slog.Logger, path string) (*Session, error) {
	if path == "" {
		path = defaultStateFile
	}
	s := &Session{logger: logger, path: path, state: state{NotifyMinutes: defaultNotifyMinutes}}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("No session file found, starting fresh.", "file", path)
			return s, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if err := json.Unmarshal(data, &s.state); err != nil {
		return nil, fmt.Errorf("failed to parse session file %s: %w", path, err)
	}
	if s.state.NotifyMinutes < 0 {
		s.state.NotifyMinutes = defaultNotifyMinutes
	}
	return s, nil
}

// Save writes the session back to its state file.
func (s *Session) Save() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return os.WriteFile(s.path, data, 0644)
}

// Selected returns the selection list in insertion order.
func (s *Session) Selected() []models.SelectedCourse {
	return s.state.Selected
}

// NotifyMinutes returns the global minutes-before-event setting.
func (s *Session) NotifyMinutes() int {
	return s.state.NotifyMinutes
}

// SetNotifyMinutes updates the global notification setting. Zero means "at
// event time"; negative values are rejected.
func (s *Session) SetNotifyMinutes(minutes int) error {
	if minutes < 0 {
		return fmt.Errorf("notification minutes must not be negative, got %d", minutes)
	}
	s.state.NotifyMinutes = minutes
	return nil
}

// Add appends the regular class meeting of a catalog section to the
// selection. Editable fields are seeded from the catalog record.
func (s *Session) Add(course models.Course) (*models.SelectedCourse, error) {
	for _, c := range s.state.Selected {
		if c.CourseID == course.SectionID && !c.LabOnly {
			return nil, ErrAlreadySelected
		}
	}

	room := course.RoomName
	if room == "" {
		room = schedule.RoomFromSchedule(course.ClassSchedule)
	}

	sel := models.SelectedCourse{
		SelectionID:     uuid.NewString(),
		CourseID:        course.SectionID,
		CourseName:      course.CourseCode,
		CourseTitle:     course.CourseTitle,
		FacultyName:     course.FacultyName,
		RoomNumber:      room,
		InstructorEmail: instructorEmail(course.FacultyName),
		EventType:       models.EventNormal,
		ClassSchedule:   course.ClassSchedule,
		SectionName:     course.SectionName,
	}
	s.state.Selected = append(s.state.Selected, sel)
	s.logger.Info("Course added to selection.", "course", sel.CourseName, "section", sel.SectionName)
	return &sel, nil
}

// AddLab appends the lab meeting of a catalog section as a separate
// selection. A lab and its regular class can coexist in the list.
func (s *Session) AddLab(course models.Course) (*models.SelectedCourse, error) {
	if course.LabSchedule == "" {
		return nil, ErrNoLab
	}
	for _, c := range s.state.Selected {
		if c.CourseID == course.SectionID && c.LabOnly {
			return nil, ErrAlreadySelected
		}
	}

	name := course.CourseCode
	title := course.LabName
	if title == "" {
		name += "_Lab"
		title = course.CourseTitle + " Lab"
	}
	room := course.LabRoomName
	if room == "" {
		room = "Lab TBA"
	}

	sel := models.SelectedCourse{
		SelectionID:     uuid.NewString(),
		CourseID:        course.SectionID,
		CourseName:      name,
		CourseTitle:     title,
		FacultyName:     course.FacultyName,
		RoomNumber:      room,
		InstructorEmail: instructorEmail(course.FacultyName),
		EventType:       models.EventLab,
		ClassSchedule:   course.LabSchedule,
		SectionName:     course.SectionName,
		LabOnly:         true,
	}
	s.state.Selected = append(s.state.Selected, sel)
	s.logger.Info("Lab added to selection.", "course", sel.CourseName, "section", sel.SectionName)
	return &sel, nil
}

// EditFields carries optional updates for a selection; nil pointers leave the
// corresponding field unchanged.
type EditFields struct {
	CourseName      *string
	CourseTitle     *string
	FacultyName     *string
	RoomNumber      *string
	InstructorEmail *string
	EventType       *models.EventType
}

// Edit updates the editable fields of the selection referenced by ref.
func (s *Session) Edit(ref string, f EditFields) (*models.SelectedCourse, error) {
	i, err := s.find(ref)
	if err != nil {
		return nil, err
	}
	c := &s.state.Selected[i]

	if f.EventType != nil && !f.EventType.Valid() {
		return nil, fmt.Errorf("invalid event type %q (want normal, lab or exam)", *f.EventType)
	}
	if f.CourseName != nil {
		c.CourseName = *f.CourseName
	}
	if f.CourseTitle != nil {
		c.CourseTitle = *f.CourseTitle
	}
	if f.FacultyName != nil {
		c.FacultyName = *f.FacultyName
	}
	if f.RoomNumber != nil {
		c.RoomNumber = *f.RoomNumber
	}
	if f.InstructorEmail != nil {
		c.InstructorEmail = *f.InstructorEmail
	}
	if f.EventType != nil {
		c.EventType = *f.EventType
	}
	return c, nil
}

// Remove deletes the selection referenced by ref and returns it.
func (s *Session) Remove(ref string) (models.SelectedCourse, error) {
	i, err := s.find(ref)
	if err != nil {
		return models.SelectedCourse{}, err
	}
	removed := s.state.Selected[i]
	s.state.Selected = append(s.state.Selected[:i], s.state.Selected[i+1:]...)
	s.logger.Info("Course removed from selection.", "course", removed.CourseName)
	return removed, nil
}

// Reset clears the selection list. The notification setting survives a reset.
func (s *Session) Reset() {
	s.state.Selected = nil
	s.logger.Info("Selection cleared.")
}

// find resolves ref as a 1-based list index or a selection-ID prefix.
func (s *Session) find(ref string) (int, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(s.state.Selected) {
			return 0, fmt.Errorf("%w: index %d out of range 1..%d", ErrNotFound, n, len(s.state.Selected))
		}
		return n - 1, nil
	}

	match := -1
	for i, c := range s.state.Selected {
		if strings.HasPrefix(c.SelectionID, ref) {
			if match >= 0 {
				return 0, fmt.Errorf("selection reference %q is ambiguous", ref)
			}
			match = i
		}
	}
	if match < 0 {
		return 0, fmt.Errorf("%w: %q", ErrNotFound, ref)
	}
	return match, nil
}

// instructorEmail derives a contact address from the faculty short name, the
// way the original catalog records it.
func instructorEmail(faculty string) string {
	if faculty == "" || faculty == "TBA" {
		return defaultEmail
	}
	return strings.ToLower(faculty) + "@" + emailDomain
}
