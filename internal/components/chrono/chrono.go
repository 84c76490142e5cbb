package chrono

import (
	"time"
	_ "time/tzdata"
)

var bangkok *time.Location

func init() {
	var err error
	bangkok, err = time.LoadLocation("Asia/Bangkok")
	if err != nil {
		panic(err)
	}
}

// Bangkok returns a [*time.Location] for Asia/Bangkok, the timezone every
// supported site announces its sales in.
func Bangkok() *time.Location {
	return bangkok
}

// TimeAPI is the interface that anything depending on the system clock should use.
type TimeAPI interface {
	Now() time.Time
}

// StandardTime is the standard implementation of TimeAPI using the standard library.
type StandardTime struct{}

func (StandardTime) Now() time.Time {
	return time.Now().In(bangkok)
}
