// Package compiler transforms desired configuration into executable steps.
// It provides the core pipeline: Config → Provider → StepGraph.
package compiler

import (
	"fmt"
)

// Compiler orchestrates providers to build a StepGraph from configuration.
type Compiler struct {
	providers []Provider
}

// NewCompiler creates a new Compiler.
func NewCompiler() *Compiler {
	return &Compiler{
		providers: make([]Provider, 0),
	}
}

// RegisterProvider adds a provider to the compiler.
// Providers are called in registration order during compilation.
func (c *Compiler) RegisterProvider(provider Provider) {
	c.providers = append(c.providers, provider)
}

// Providers returns all registered providers.
func (c *Compiler) Providers() []Provider {
	return c.providers
}

// Compile transforms configuration into a validated StepGraph.
// Returns an error if any provider fails to compile, a step ID is
// duplicated, a dependency is missing, or the graph has a cycle.
func (c *Compiler) Compile(ctx CompileContext) (*StepGraph, error) {
	graph := NewStepGraph()

	for _, provider := range c.providers {
		steps, err := provider.Compile(ctx)
		if err != nil {
			return nil, fmt.Errorf("provider %q: %w", provider.Name(), err)
		}

		for _, step := range steps {
			if err := graph.Add(step); err != nil {
				return nil, fmt.Errorf("provider %q, step %q: %w",
					provider.Name(), step.ID().String(), err)
			}
		}
	}

	if err := graph.Validate(); err != nil {
		return nil, err
	}

	if _, err := graph.TopologicalSort(); err != nil {
		return nil, err
	}

	return graph, nil
}
