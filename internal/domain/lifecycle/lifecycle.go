// Package lifecycle holds shared timing constants for start and stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds every OnStart/OnStop hook: store pings, publisher
// shutdown and HTTP server drain.
const DefaultTimeout = 10 * time.Second
