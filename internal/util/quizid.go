package util

import (
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

const quizIDPrefix = "quiz_"

// NewQuizID generates a quiz identifier of the form quiz_<ULID>. The ULID
// keeps the identifier time-ordered while its entropy component makes two
// same-second requests collide only with negligible probability.
func NewQuizID() string {
	now := time.Now()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(now.UnixNano())), 0)
	return quizIDPrefix + ulid.MustNew(ulid.Timestamp(now), entropy).String()
}
