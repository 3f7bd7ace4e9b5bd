package brain

import (
	"testing"
	"time"

	"github.com/sandevgo/parley/pkg/textsim"
	"github.com/stretchr/testify/assert"
)

func fixedClock() time.Time {
	return time.Date(2024, time.March, 5, 14, 7, 0, 0, time.UTC)
}

func TestTimeReply(t *testing.T) {
	tests := []struct {
		input  string
		wantOK bool
	}{
		{input: "what time is it", wantOK: true},
		{input: "What time is it?", wantOK: true},
		{input: "what time", wantOK: true},
		{input: "time", wantOK: false},
		{input: "time flies", wantOK: false},
		{input: "what is it", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := timeReply(textsim.Tokenize(tt.input), fixedClock)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, "The current time is 02:07 PM.", got)
			}
		})
	}
}

func TestDateReply(t *testing.T) {
	tests := []struct {
		input  string
		wantOK bool
	}{
		{input: "what is the date today", wantOK: true},
		{input: "what's the date", wantOK: true},
		{input: "today", wantOK: false},
		{input: "what is the weather like", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := dateReply(textsim.Tokenize(tt.input), fixedClock)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, "Today is Tuesday, March 05, 2024.", got)
			}
		})
	}
}
