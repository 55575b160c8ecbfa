// Package extension adapts the forwarder to an editor's extension contract:
// the host constructs the extension, may ask it which command backs a
// capability, and calls OpenURL when the user follows a matching link.
package extension

import (
	"github.com/berrythewa/linkforward/internal/config"
	"github.com/berrythewa/linkforward/internal/forwarder"
	"go.uber.org/zap"
)

// Command is a subprocess the host would launch on the extension's behalf.
type Command struct {
	Command string
	Args    []string
	Env     map[string]string
}

// Extension is the host-facing entry point.
type Extension struct {
	forwarder *forwarder.Forwarder
}

// New builds an Extension forwarding to the service described by cfg.
func New(cfg *config.Config, logger *zap.Logger) *Extension {
	return &Extension{
		forwarder: forwarder.New(forwarder.Options{
			ServiceURL: cfg.ServiceURL,
			IDE:        cfg.IDE,
			Timeout:    cfg.Timeout.Std(),
			Logger:     logger,
		}),
	}
}

// NewWithForwarder builds an Extension around an existing forwarder.
func NewWithForwarder(f *forwarder.Forwarder) *Extension {
	return &Extension{forwarder: f}
}

// LanguageServerCommand answers the host's capability query. The extension
// launches nothing, so the command is always empty.
func (e *Extension) LanguageServerCommand(serverID, worktree string) (Command, error) {
	return Command{}, nil
}

// OpenURL hands url to the helper service.
func (e *Extension) OpenURL(url string) error {
	return e.forwarder.Forward(url)
}
