// internal/status/snapshot.go
package status

// Snapshot is exactly what the mirror is allowed to deliver about
// sampler health. No logic and no memory beyond current state.
type Snapshot struct {
	Health             uint16
	LastErrorCode      uint16
	SecondsWithoutData uint16
	Mode               uint16
}
