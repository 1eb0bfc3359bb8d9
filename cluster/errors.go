// CLAUDE:SUMMARY Sentinel errors for the clustering engine: input mismatch, invalid vector, embedding unavailable.
package cluster

import "errors"

// ErrInputMismatch is returned when tab and embedding counts differ.
var ErrInputMismatch = errors.New("cluster: tab and embedding counts differ")

// ErrInvalidVector is returned when embedding dimensions are inconsistent.
var ErrInvalidVector = errors.New("cluster: inconsistent embedding dimension")

// ErrEmbeddingUnavailable signals an upstream embedding provider failure.
// The engine never produces it itself; callers use it to trigger the
// domain-mode degrade path.
var ErrEmbeddingUnavailable = errors.New("cluster: embeddings unavailable")
