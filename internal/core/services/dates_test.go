package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanDates(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"slashes", "Mødet 12/01/2023 blev aflyst", []string{"2023-01-12"}},
		{"dashes two digit year", "sent 12-01-23", []string{"2023-01-12"}},
		{"dots", "dated 1.2.1999", []string{"1999-02-01"}},
		{"danish month", "København, 15. januar 2024", []string{"2024-01-15"}},
		{"english month", "on 3 March 2021 we met", []string{"2021-03-03"}},
		{"abbreviation", "3 okt. 2020", []string{"2020-10-03"}},
		{"order of appearance", "3 March 2021 and 01/02/2020", []string{"2021-03-03", "2020-02-01"}},
		{"duplicates", "01/02/2020 and 1/2/2020", []string{"2020-02-01"}},
		{"invalid kept verbatim", "31/02/2020", []string{"31/02/2020"}},
		{"none", "no dates here", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScanDates(tt.text))
		})
	}
}
