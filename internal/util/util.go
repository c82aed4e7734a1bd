package util

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// GetTrace produces the string representation of a stack trace
func GetTrace() string {
	var name, file string
	var line int
	var pc [16]uintptr
	var res strings.Builder
	n := runtime.Callers(3, pc[:])
	for _, pc := range pc[:n] {
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}
		file, line = fn.FileLine(pc)
		name = fn.Name()
		if !strings.HasPrefix(name, "runtime.") {
			fmt.Fprintf(&res, "%s\n\t%s:%d\n", name, file, line)
		}
	}
	return res.String()
}

// FormatMultiError formats multierrors for logging
func FormatMultiError(merr *multierror.Error) string {
	var msg strings.Builder
	for _, err := range merr.WrappedErrors() {
		fmt.Fprintf(&msg, "%+v\n", err)
	}
	return msg.String()
}
