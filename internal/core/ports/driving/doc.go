// Package driving defines interfaces that external actors (CLI, an
// embedding application) use to interact with core services. These are
// the "driving" ports in hexagonal architecture terminology - they
// drive the application.
//
// None of these operations fail toward the caller: storage and
// serialization faults are logged and converted into empty or zero
// results, so an empty result always means "no information available".
//
// Implementations of these interfaces live in internal/core/services.
package driving
