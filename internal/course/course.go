package course

import (
	"github.com/skybi/oasis-sync/internal/nexacro"
)

// TakenCourse represents a course a student has completed or is currently enrolled in
type TakenCourse struct {
	Year           string  `json:"year"`
	Semester       string  `json:"semester"`
	SubjectCode    string  `json:"subject_code"`
	SubjectName    string  `json:"subject_name"`
	CompletionType string  `json:"completion_type"`
	Points         float64 `json:"points"`
	Grade          string  `json:"grade"`
}

// FromRow extracts a taken course out of a portal dataset row.
// Unparsable credit points are reported as zero.
func FromRow(row nexacro.Row) *TakenCourse {
	points, _ := row.Float("PNT")
	return &TakenCourse{
		Year:           row.Get("YY"),
		Semester:       row.Get("SHTMNM"),
		SubjectCode:    row.Get("SBJTCD"),
		SubjectName:    row.Get("SBJTNM"),
		CompletionType: row.Get("CPTNFGNM"),
		Points:         points,
		Grade:          row.Get("GRDNM"),
	}
}

// FromRows extracts every row into a taken course
func FromRows(rows nexacro.Rows) []*TakenCourse {
	courses := make([]*TakenCourse, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, FromRow(row))
	}
	return courses
}

// TotalPoints sums up the credit points of the given courses
func TotalPoints(courses []*TakenCourse) float64 {
	var total float64
	for _, course := range courses {
		total += course.Points
	}
	return total
}
