package storygen

// Config controls the behavior of the Generator.
type Config struct {
	// Validators run in order on every generated story; the first failure
	// stops the pipeline.
	Validators []Validator

	// MaxAttempts bounds how many stories are requested when a validator
	// reports a retryable failure.
	MaxAttempts int

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns the standard validator chain and defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&ParagraphReferenceValidator{},
		},
		MaxAttempts: 2,
		MaxTokens:   2048,
		Temperature: 0.8,
	}
}
