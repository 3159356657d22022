package i18n

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int64
		lang string
		want string
	}{
		{0, "en", "0"},
		{1234, "en", "1,234"},
		{1234567, "en-US", "1,234,567"},
		{-42, "en", "-42"},
		{0, "np", "०"},
		{1234, "np", "१२३४"},
		{9876543210, "np-NP", "९८७६५४३२१०"},
	}

	for _, tt := range tests {
		t.Run(tt.lang+"/"+tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumber(tt.n, tt.lang))
		})
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2025, time.March, 7, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "March 7, 2025", FormatDate(d, "en"))
	assert.Equal(t, "२०२५-०३-०७", FormatDate(d, "np"))
}
