package brain

import (
	"time"

	"github.com/sandevgo/parley/pkg/textsim"
)

const (
	timeLayout = "03:04 PM"
	dateLayout = "Monday, January 02, 2006"

	// A gate opens only strictly above this score, so a bare "time"
	// (Dice 0.4 against the reference phrase) is not a time question.
	calendarThreshold = 0.4
)

var (
	timeReference = textsim.Tokenize("what time is it")
	dateReference = textsim.Tokenize("what is the date today")
)

// Clock returns the current local time.
type Clock func() time.Time

func timeReply(tokens textsim.TokenSet, now Clock) (string, bool) {
	if !tokens.Has("time") || textsim.Dice(tokens, timeReference) <= calendarThreshold {
		return "", false
	}
	return "The current time is " + now().Format(timeLayout) + ".", true
}

func dateReply(tokens textsim.TokenSet, now Clock) (string, bool) {
	if !tokens.Has("date") && !tokens.Has("today") {
		return "", false
	}
	if textsim.Dice(tokens, dateReference) <= calendarThreshold {
		return "", false
	}
	return "Today is " + now().Format(dateLayout) + ".", true
}
