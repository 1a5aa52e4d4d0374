package logger

import (
	"time"
)

// Field keys used across the planner.
const (
	FieldComponent    = "component"
	FieldTraceID      = "trace_id"
	FieldSpanID       = "span_id"
	FieldRequestID    = "request_id"
	FieldPlanID       = "plan_id"
	FieldPhase        = "phase"
	FieldVertex       = "vertex"
	FieldKind         = "kind"
	FieldSolutionRoot = "solution_root"
	FieldLevel        = "level"
	FieldIdentity     = "identity"
	FieldCode         = "code"
	FieldCount        = "count"
	FieldError        = "error"
	FieldDuration     = "duration_ms"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	log.Info("resolved", logger.Fields("vertices", 42, "edges", 97))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// PhaseFields creates fields for a finished planning phase.
func PhaseFields(phase string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldPhase:    phase,
		FieldDuration: d.Milliseconds(),
	}
}

// VertexFields identifies a graph vertex.
func VertexFields(name, kind string) map[string]interface{} {
	return map[string]interface{}{
		FieldVertex: name,
		FieldKind:   kind,
	}
}

// ErrorFields creates fields for a phase that failed.
func ErrorFields(phase string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldPhase: phase,
		FieldError: err.Error(),
	}
}

// MergeWithError adds an error field to an existing map.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldError] = err.Error()
	return fields
}
