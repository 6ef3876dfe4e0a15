package searcher

import "github.com/go-logr/logr"

var internalLogger = logr.Discard()

func SetLogger(logger logr.Logger) {
	internalLogger = logger.WithName("searcher")
}
