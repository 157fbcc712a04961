package source

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bianoble/stencil/internal/runner"
)

// GitAcquirer shallow-clones a template with an external git client.
type GitAcquirer struct {
	Runner runner.Runner
	// Command is the client executable. Default: "git".
	Command string
	// Depth is the clone depth. Default: 1.
	Depth int
}

// Acquire runs `<git> clone --depth <n> <src> <dest>`. Any start failure or
// non-zero exit is returned as a SourceError.
func (g *GitAcquirer) Acquire(ctx context.Context, src, dest string) error {
	if g.Runner == nil {
		return &SourceError{Source: src, Operation: "clone", Err: fmt.Errorf("no process runner configured")}
	}

	code, err := g.Runner.Run(ctx, g.command(), CloneArgs(src, dest, g.depth()), "")
	if err != nil {
		return &SourceError{Source: src, Operation: "clone", Err: err, Hint: "check that " + g.command() + " is installed"}
	}
	if code != 0 {
		return &SourceError{
			Source:    src,
			Operation: "clone",
			Err:       fmt.Errorf("%s exited with status %d", g.command(), code),
			Hint:      "check the repository URL and authentication",
		}
	}
	return nil
}

// CloneArgs builds the argument list for a shallow clone.
func CloneArgs(src, dest string, depth int) []string {
	return []string{"clone", "--depth", strconv.Itoa(depth), src, dest}
}

func (g *GitAcquirer) command() string {
	if g.Command == "" {
		return "git"
	}
	return g.Command
}

func (g *GitAcquirer) depth() int {
	if g.Depth < 1 {
		return 1
	}
	return g.Depth
}
