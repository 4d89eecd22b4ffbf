package ai

import "context"

// StaticProvider replies with a fixed string and never touches the network.
// The parse command uses it to run saved replies through the normal pipeline.
type StaticProvider struct {
	Reply string
	Name  string
}

// NewStaticProvider returns a provider that always answers reply.
func NewStaticProvider(reply string) *StaticProvider {
	return &StaticProvider{Reply: reply, Name: "static"}
}

// ModelName reports the provider's label.
func (p *StaticProvider) ModelName() string { return p.Name }

// Complete returns the fixed reply.
func (p *StaticProvider) Complete(_ context.Context, _ Request) (string, error) {
	return p.Reply, nil
}
