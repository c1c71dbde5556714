package profile

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// maxCellWarnings caps per-cell warnings; the remainder is summarised.
const maxCellWarnings = 10

// warnings collects recoverable data issues and mirrors each one to the log.
type warnings []string

func (w *warnings) add(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logrus.Warn(msg)
	*w = append(*w, msg)
}
