package credit

import (
	"github.com/skybi/oasis-sync/internal/nexacro"
)

// Credit represents one line of the graduation credit overview
type Credit struct {
	MajorType             string `json:"major_type"`
	Department            string `json:"department"`
	Category              string `json:"category"`
	RequiredCulturePoints string `json:"required_culture_points"`
	RequiredMajorPoints   string `json:"required_major_points"`
	ChoiceMajorPoints     string `json:"choice_major_points"`
	TotalPoints           string `json:"total_points"`
}

// FromRow extracts a credit line out of a portal dataset row
func FromRow(row nexacro.Row) *Credit {
	return &Credit{
		MajorType:             row.Get("MAJORFG"),
		Department:            row.Get("SUSTMIXNM"),
		Category:              row.Get("GUBUN"),
		RequiredCulturePoints: row.Get("MINCULTPNT"),
		RequiredMajorPoints:   row.Get("MINMJNECEPNT"),
		ChoiceMajorPoints:     row.Get("MINMJCHOICEPNT"),
		TotalPoints:           row.Get("GRDTPNT"),
	}
}

// FromRows extracts every row into a credit line
func FromRows(rows nexacro.Rows) []*Credit {
	credits := make([]*Credit, 0, len(rows))
	for _, row := range rows {
		credits = append(credits, FromRow(row))
	}
	return credits
}
