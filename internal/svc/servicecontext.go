package svc

import (
	"github.com/hackmate-ai/hackmate/internal/auth"
	"github.com/hackmate-ai/hackmate/internal/command"
	"github.com/hackmate-ai/hackmate/internal/config"
	"github.com/hackmate-ai/hackmate/internal/dispatch"
	"github.com/hackmate-ai/hackmate/internal/plugin"
	"github.com/hackmate-ai/hackmate/internal/relay"
	"github.com/hackmate-ai/hackmate/internal/search"
	"github.com/hackmate-ai/hackmate/internal/tokenizer"
)

// ServiceContext carries the per-process dependencies shared by handlers.
type ServiceContext struct {
	Config     config.Config
	Registry   *command.Registry
	Dispatcher *dispatch.Dispatcher
	Relay      *relay.Client
	Executor   *plugin.Executor
	Search     *search.Client
	Status     *auth.StatusClient
	// Tokenizer builds the per-request encoder. Tests substitute a cheap
	// deterministic one.
	Tokenizer tokenizer.Factory
}

func NewServiceContext(c config.Config) *ServiceContext {
	registry := command.DefaultRegistry()
	relayClient := relay.NewClient(c)
	return &ServiceContext{
		Config:     c,
		Registry:   registry,
		Dispatcher: dispatch.New(c, registry),
		Relay:      relayClient,
		Executor:   plugin.New(c, relayClient),
		Search:     search.NewClient(c),
		Status:     auth.NewStatusClient(c),
		Tokenizer:  tokenizer.New,
	}
}
