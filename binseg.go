/*
Package binseg holds application level constants and shared resources for
the binseg service, which locates the single best changepoint of a series.
*/
package binseg

const (
	// QueueName is the name of the shared queue that runs split jobs.
	QueueName = "binseg.split"

	DefaultServicePort   = 3000
	DefaultNumWorkers    = 2
	DefaultQueueCapacity = 1024
)

// BuildRevision stores the commit in the git repository at build time and is
// specified with -ldflags at build time.
var BuildRevision = ""
