package models

// EventType classifies a selected entry for calendar export.
type EventType string

const (
	EventNormal EventType = "normal"
	EventLab    EventType = "lab"
	EventExam   EventType = "exam"
)

// Suffix is appended to the summary line of exported calendar events.
func (t EventType) Suffix() string {
	switch t {
	case EventLab:
		return "_Lab"
	case EventExam:
		return "_Exam"
	default:
		return ""
	}
}

// Valid reports whether t is one of the recognized event types.
func (t EventType) Valid() bool {
	switch t {
	case EventNormal, EventLab, EventExam:
		return true
	}
	return false
}

// SelectedCourse is one entry in the user's personal schedule.
// The editable fields start out copied from the catalog record and may be
// changed before export; the catalog record itself is never mutated.
type SelectedCourse struct {
	SelectionID     string    `json:"selectionId"` // Stable identity for this selection
	CourseID        int64     `json:"courseId"`    // Catalog section ID this entry was built from
	CourseName      string    `json:"courseName"`
	CourseTitle     string    `json:"courseTitle"`
	FacultyName     string    `json:"facultyName"`
	RoomNumber      string    `json:"roomNumber"`
	InstructorEmail string    `json:"instructorEmail"`
	EventType       EventType `json:"eventType"`
	ClassSchedule   string    `json:"classSchedule"`
	SectionName     string    `json:"sectionName"`
	LabOnly         bool      `json:"labOnly"`
}
