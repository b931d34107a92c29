package interfaces

import "context"

// ReasoningService is the capability the insight requester depends on:
// submit a prompt, get raw completion text back within the deadline
// carried by ctx. Implementations may call any cloud LLM API; tests use
// a deterministic fake.
type ReasoningService interface {
	// Complete submits a prompt and returns the raw response text.
	Complete(ctx context.Context, prompt string) (string, error)

	// HealthCheck verifies the service is configured and reachable.
	HealthCheck(ctx context.Context) error

	// Close releases any underlying clients.
	Close() error
}
