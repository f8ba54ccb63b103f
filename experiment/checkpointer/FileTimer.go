package checkpointer

import (
	"fmt"
	"time"
)

// FileTimer returns a function which will append to a filename the
// current UTC time, to the nanosecond
func FileTimer(filename, extension string) func() string {
	return func() string {
		stamp := time.Now().UTC().Format("20060102T150405.000000000")
		return fmt.Sprintf("%v-%v%v", filename, stamp, extension)
	}
}
