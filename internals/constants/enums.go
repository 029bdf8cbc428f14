package constants

// Application status values. Approved and rejected are terminal by
// policy: the editability checker refuses self-edits on both.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Masinga constituency wards.
var Wards = []string{
	"kivaa",
	"masinga-central",
	"ndithini",
	"ekalakala",
	"muthesya",
}

func IsValidWard(w string) bool {
	for _, ward := range Wards {
		if w == ward {
			return true
		}
	}
	return false
}
