package btevict

import (
	stdlog "log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// log is the package default logger. Callers embedding this core in a
// larger engine should replace it with SetLogger before running any
// evictions; tests use the default stdr sink.
var log logr.Logger

func init() {
	stdr.SetVerbosity(1)
	log = stdr.New(stdlog.New(os.Stderr, "", stdlog.LstdFlags))
}

// SetLogger installs l as the package-wide logger used by the eviction
// driver and the commit applier. It is not
// safe to call concurrently with an in-flight Evict.
func SetLogger(l logr.Logger) {
	log = l
}
