package opener

import (
	"context"
	"io"
)

// Opener abstracts a single data source that can be opened for reading.
// Implementations are expected to be cheap to construct; the actual I/O
// happens in Open.
type Opener interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Name() string
}
