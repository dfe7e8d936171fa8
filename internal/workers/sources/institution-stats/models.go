// internal/workers/sources/institution-stats/models.go
package institutionstats

// school is one College Scorecard row as returned with a dotted field list.
type school struct {
	Name            string   `json:"school.name"`
	City            string   `json:"school.city"`
	State           string   `json:"school.state"`
	Ownership       *int     `json:"school.ownership"`
	Size            *int     `json:"latest.student.size"`
	GradEnrollment  *int     `json:"latest.student.enrollment.grad_12_month"`
	AdmissionRate   *float64 `json:"latest.admissions.admission_rate.overall"`
	TuitionInState  *int     `json:"latest.cost.tuition.in_state"`
	TuitionOutState *int     `json:"latest.cost.tuition.out_of_state"`
}

type scorecardResponse struct {
	Results []school `json:"results"`
}

var requestedFields = []string{
	"school.name", "school.city", "school.state", "school.ownership",
	"latest.student.size", "latest.student.enrollment.grad_12_month",
	"latest.admissions.admission_rate.overall",
	"latest.cost.tuition.in_state", "latest.cost.tuition.out_of_state",
}

var ownershipTypes = map[int]string{
	1: "Public",
	2: "Private nonprofit",
	3: "Private for-profit",
}
