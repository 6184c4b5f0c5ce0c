package llm

import "fmt"

// ProviderOptions carries provider construction settings from configuration.
type ProviderOptions struct {
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OllamaBaseURL string
}

// ResolveProvider builds the named provider. A nil Provider with a nil error
// is returned for "none", letting the caller run in fallback-only mode.
func ResolveProvider(name string, opts ProviderOptions) (Provider, error) {
	switch name {
	case "", "none":
		return nil, nil
	case "openai":
		if opts.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai: %w: api key not set", ErrProviderNotAvailable)
		}
		if opts.OpenAIBaseURL != "" {
			return NewOpenAIProviderWithBaseURL(opts.OpenAIAPIKey, opts.OpenAIBaseURL), nil
		}
		return NewOpenAIProvider(opts.OpenAIAPIKey), nil
	case "ollama":
		return NewOllamaProvider(opts.OllamaBaseURL), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}
