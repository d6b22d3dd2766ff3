package allocation

import "fmt"

// numberPrefix is the institution marker leading every admission number.
const numberPrefix = "INST"

// FormatAdmissionNumber renders the canonical admission number for a
// confirmed admission, e.g. INST/2026/UG/CSE/KCET/0001. The sequence
// is zero-padded to four digits; values past 9999 format unpadded
// rather than failing.
func FormatAdmissionNumber(year, courseCode, programCode, modeCode string, sequence uint64) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s/%04d",
		numberPrefix, year, courseCode, programCode, modeCode, sequence)
}
