package student

import (
	"github.com/skybi/oasis-sync/internal/nexacro"
)

// Info represents the registration record of a student as shown by the portal
type Info struct {
	StudentNo          string `json:"student_no"`
	Name               string `json:"name"`
	College            string `json:"college"`
	Department         string `json:"department"`
	Grade              string `json:"grade"`
	EntranceDate       string `json:"entrance_date"`
	CompletedSemesters string `json:"completed_semesters"`
	CurriculumYear     string `json:"curriculum_year"`
	GPA                string `json:"gpa"`
}

// FromRow extracts the student information out of a portal dataset row
func FromRow(row nexacro.Row) *Info {
	return &Info{
		StudentNo:          row.Get("STDNO"),
		Name:               row.Get("NM"),
		College:            row.Get("UNIVCDNM"),
		Department:         row.Get("MJCDNM"),
		Grade:              row.Get("SHTRNM"),
		EntranceDate:       row.Get("ENTRDT"),
		CompletedSemesters: row.Get("TTCPTNSHTMCNT"),
		CurriculumYear:     row.Get("SUBMATTYY"),
		GPA:                row.Get("TOTALSCORAVG"),
	}
}
