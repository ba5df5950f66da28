package classify

import (
	"context"

	"secondbrain/internal/model"
	"secondbrain/pkg/circuitbreaker"
)

// BreakerOracle wraps an Oracle with a circuit breaker. While the provider
// is failing, calls are rejected immediately and the processor's note
// fallback takes over instead of every capture waiting out a timeout.
type BreakerOracle struct {
	oracle  Oracle
	breaker *circuitbreaker.CircuitBreaker
}

func NewBreakerOracle(oracle Oracle, cfg circuitbreaker.Config) *BreakerOracle {
	return &BreakerOracle{
		oracle:  oracle,
		breaker: circuitbreaker.NewCircuitBreaker(cfg),
	}
}

func (b *BreakerOracle) Classify(ctx context.Context, text string) (*model.Classification, error) {
	var result *model.Classification
	err := b.breaker.Execute(func() error {
		var classifyErr error
		result, classifyErr = b.oracle.Classify(ctx, text)
		return classifyErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
