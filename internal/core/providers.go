package core

import "context"

// Provider is the upstream text-generation collaborator. The broker only
// depends on this contract; vendor request shaping lives behind it.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ProviderSet is the configured providers keyed by short id. A provider
// missing its credential is simply absent from the set.
type ProviderSet map[string]Provider

// Names returns the configured provider ids in stable order.
func (s ProviderSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	return names
}
