package embedding

import "context"

// Embedder converts text into a fixed-dimension vector. Implementations
// must be deterministic for a given model version and safe for concurrent
// use.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}
