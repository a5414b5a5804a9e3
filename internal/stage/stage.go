// Package stage defines the readiness check shared by the pipeline
// collaborators and aggregated by `podlinks doctor`.
package stage

import "context"

// Health is the readiness of one collaborator. Detail explains a not-ready
// state and is empty otherwise.
type Health struct {
	Name   string
	Ready  bool
	Detail string
}

func Healthy(name string) Health { return Health{Name: name, Ready: true} }

func Unhealthy(name, detail string) Health { return Health{Name: name, Detail: detail} }

// Checker is implemented by collaborators that can report readiness before a
// run starts.
type Checker interface {
	HealthCheck(context.Context) Health
}

// CheckAll runs each non-nil checker in order.
func CheckAll(ctx context.Context, checkers ...Checker) []Health {
	var results []Health
	for _, c := range checkers {
		if c != nil {
			results = append(results, c.HealthCheck(ctx))
		}
	}
	return results
}

// AllReady reports whether every record is ready.
func AllReady(records []Health) bool {
	for _, h := range records {
		if !h.Ready {
			return false
		}
	}
	return true
}
