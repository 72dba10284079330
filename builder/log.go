package builder

import (
	"fmt"
	"os"
	"time"
)

// logf appends a timestamped line to the session log and mirrors it to the
// structured logger. Log failures never interrupt a build.
func (b *Builder) logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	b.logger.Info().Str("component", "builder").Msg(msg)

	f, err := os.OpenFile(b.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "%s %s\n", time.Now().Format("2006-01-02 15:04:05"), msg)
}
