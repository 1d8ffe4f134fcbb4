package bidding

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaskName(t *testing.T) {
	tests := []struct {
		name  string
		first string
		last  string
		want  string
	}{
		{"full_name", "Giulia", "Rossi", "Giulia R."},
		{"multibyte_last_initial", "Søren", "Østergaard", "Søren Ø."},
		{"no_last_name", "Giulia", "", "Giulia"},
		{"no_first_name", "", "Rossi", "R."},
		{"empty", "", "", "Anonymous"},
		{"whitespace_only", "  ", " \t", "Anonymous"},
		{"padded_input", " Giulia ", " Rossi ", "Giulia R."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, MaskName(tc.first, tc.last))
		})
	}
}
