package logger

import (
	"context"
	"os"
	"os/user"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type commandContextKey struct{}

// CommandContext describes one CLI invocation. It travels in the
// context so downstream logging and the cache journal can attribute
// work to the run that triggered it.
type CommandContext struct {
	Command    string    `json:"command"`
	Args       []string  `json:"args"`
	User       string    `json:"user"`
	Hostname   string    `json:"hostname"`
	WorkingDir string    `json:"working_dir"`
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id"`
}

// NewCommandContext captures the invocation metadata for a cobra
// command. Host details are best effort and empty on failure.
func NewCommandContext(cmd *cobra.Command, args []string) *CommandContext {
	cc := &CommandContext{
		Command:   cmd.CommandPath(),
		Args:      args,
		Timestamp: time.Now(),
		RequestID: uuid.NewString(),
	}
	if u, err := user.Current(); err == nil {
		cc.User = u.Username
	}
	if host, err := os.Hostname(); err == nil {
		cc.Hostname = host
	}
	if cwd, err := os.Getwd(); err == nil {
		cc.WorkingDir = cwd
	}
	return cc
}

// WithCommandContext attaches cc to the context.
func WithCommandContext(ctx context.Context, cc *CommandContext) context.Context {
	return context.WithValue(ctx, commandContextKey{}, cc)
}

// CommandContextFrom returns the CommandContext carried by ctx, or nil.
func CommandContextFrom(ctx context.Context) *CommandContext {
	cc, _ := ctx.Value(commandContextKey{}).(*CommandContext)
	return cc
}
