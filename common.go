package websuite

import (
	"github.com/golang/glog"
)

var debugFlag = false

// SetDebug turns on logging of the remote protocol traffic. Running with
// -v=1 has the same effect.
func SetDebug(debug bool) {
	debugFlag = debug
}

func debugLog(format string, args ...interface{}) {
	if debugFlag || bool(glog.V(1)) {
		glog.Infof(format, args...)
	}
}
