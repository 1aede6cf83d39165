package storage

import "card-arbitrage/models"

// ResultWriter is the interface any result sink must satisfy. A run has a
// single writer goroutine; implementations are not required to support
// concurrent runs against the same sink.
type ResultWriter interface {
	Write(term string, results []*models.Result) error
	Close() error
}
