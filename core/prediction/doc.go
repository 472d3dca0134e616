// Package prediction defines the wait-time model capability consumed by the
// fusion engine. The trained artifact is opaque to the rest of the system:
// it maps a fixed-shape feature vector to a raw gate wait estimate in
// seconds.
package prediction
