package models

// Program enumerates the degree programs students can belong to.
type Program string

// Known programs.
const (
	ProgramBSCS   Program = "BSCS"
	ProgramBSIT   Program = "BSIT"
	ProgramBSMath Program = "BS MATH"
	ProgramBSBA   Program = "BSBA"
	ProgramBSED   Program = "BSED"
)

// Programs lists every valid program value.
func Programs() []Program {
	return []Program{ProgramBSCS, ProgramBSIT, ProgramBSMath, ProgramBSBA, ProgramBSED}
}

// ValidProgram reports whether p is a known program.
func ValidProgram(p Program) bool {
	for _, known := range Programs() {
		if p == known {
			return true
		}
	}
	return false
}

// Student represents a learner registered in the institution. StudentIDNum is
// the year-prefixed identity number (YYYY-NNNN); PinCode is a 4-digit string
// used as an alternate login key and is not guaranteed unique.
type Student struct {
	ID           int64   `json:"id"`
	StudentIDNum string  `json:"studentIdNum"`
	Name         string  `json:"name"`
	Program      Program `json:"program"`
	PinCode      string  `json:"pinCode"`
	YearLevel    string  `json:"yearLevel,omitempty"`
	Email        string  `json:"email,omitempty"`
}

// StudentFilter narrows student listings.
type StudentFilter struct {
	Search  string
	Program Program
}
