package synthesis

import (
	"fmt"
	"time"
)

// ConfigError reports invalid synthesis configuration. It is raised before
// any external call, so the caller can fix the configuration and retry
// without partial state.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("synthesis config: %s: %s", e.Field, e.Reason)
}

// LengthExceededError means the accumulated audio crossed the duration
// ceiling mid-run. No output file is written.
type LengthExceededError struct {
	Limit time.Duration
	Total time.Duration
}

func (e *LengthExceededError) Error() string {
	return fmt.Sprintf("synthesized audio %.1f min exceeds limit of %.1f min",
		e.Total.Minutes(), e.Limit.Minutes())
}

// ChunkError means a specific chunk's synthesis or decode failed. The whole
// run aborts; retrying is a caller concern.
type ChunkError struct {
	Index int // 1-based
	Total int
	Err   error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %d/%d failed: %v", e.Index, e.Total, e.Err)
}

func (e *ChunkError) Unwrap() error { return e.Err }

// ExportError means the final normalize/export step failed after all
// chunks succeeded.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export to %s failed: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }
