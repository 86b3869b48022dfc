package models

// Course represents one catalog section as mapped from the university feed.
// This is an internal representation, independent of the upstream JSON shape.
type Course struct {
	SectionID     int64   `json:"sectionId"`     // Unique section identifier from the catalog
	CourseCode    string  `json:"courseCode"`    // e.g. "CSE110"
	CourseTitle   string  `json:"courseTitle"`   // Human-readable title, falls back to the code
	FacultyName   string  `json:"facultyName"`   // Assigned faculty, "TBA" when unknown
	Department    string  `json:"department"`    // Derived from the course-code prefix
	ClassSchedule string  `json:"classSchedule"` // Canonical schedule string for the theory class
	LabSchedule   string  `json:"labSchedule"`   // Canonical schedule string for the lab, if any
	Credit        float64 `json:"credit"`
	Capacity      int     `json:"capacity"`
	ConsumedSeats int     `json:"consumedSeats"`
	SectionName   string  `json:"sectionName"`
	RoomName      string  `json:"roomName"`
	LabName       string  `json:"labName"`
	LabRoomName   string  `json:"labRoomName"`
	Degree        string  `json:"degree"`
	Prerequisites string  `json:"prerequisites"`
}

// AvailableSeats is the number of seats still open in this section.
func (c Course) AvailableSeats() int {
	return c.Capacity - c.ConsumedSeats
}
