package allocation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatAdmissionNumber(t *testing.T) {
	cases := []struct {
		name     string
		sequence uint64
		want     string
	}{
		{"first seat", 1, "INST/2026/UG/CSE/KCET/0001"},
		{"three digits", 123, "INST/2026/UG/CSE/KCET/0123"},
		{"last padded value", 9999, "INST/2026/UG/CSE/KCET/9999"},
		{"overflow formats unpadded", 12345, "INST/2026/UG/CSE/KCET/12345"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FormatAdmissionNumber("2026", "UG", "CSE", "KCET", tc.sequence)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestFormatAdmissionNumberCodesPassThrough(t *testing.T) {
	got := FormatAdmissionNumber("2027", "PG", "MBA", "MGMT", 42)
	require.Equal(t, "INST/2027/PG/MBA/MGMT/0042", got)
}
