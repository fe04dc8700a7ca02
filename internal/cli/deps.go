package cli

import (
	"context"

	"github.com/rshade/pipesctl/internal/config"
	"github.com/rshade/pipesctl/internal/invocation"
	"github.com/rshade/pipesctl/internal/pipeclient"
)

// ClientFactory builds the Pipes client for one invocation.
type ClientFactory func(ctx context.Context, opts pipeclient.ClientOptions) (*pipeclient.Client, error)

// Deps holds the collaborators commands reach outside the process with.
// Tests replace NewClient with a fake API.
type Deps struct {
	NewClient ClientFactory
}

// DefaultDeps returns the production dependencies.
func DefaultDeps() Deps {
	return Deps{NewClient: pipeclient.NewClient}
}

// withDefaults fills unset fields from DefaultDeps.
func (d Deps) withDefaults() Deps {
	if d.NewClient == nil {
		d.NewClient = pipeclient.NewClient
	}
	return d
}

// openHistoryStore opens the invocation history for the current config.
// --no-history and history.enabled=false both yield a disabled store.
func openHistoryStore(noHistory bool) (*invocation.Store, error) {
	hc := config.GetHistoryConfig()
	if noHistory || !hc.Enabled {
		return invocation.NewStore("", false, 0, 0)
	}

	dir, err := config.GetHistoryDir()
	if err != nil {
		return nil, err
	}
	return invocation.NewStore(dir, true, hc.TTLSeconds, hc.MaxEntries)
}
