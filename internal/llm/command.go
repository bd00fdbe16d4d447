package llm

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/lukman83/baydeals/pkg/errors"
)

// DefaultCommand is a local assistant CLI that reads a prompt on stdin and
// prints a {"result": ...} JSON envelope.
const DefaultCommand = "claude -p --output-format json"

// Command runs an external program per request. The prompt is written to
// stdin; an image is appended to the prompt as a base64 data URL.
type Command struct {
	path string
	args []string
}

// NewCommand splits line on whitespace into program and arguments.
func NewCommand(line string) *Command {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		fields = strings.Fields(DefaultCommand)
	}
	return &Command{path: fields[0], args: fields[1:]}
}

func (c *Command) Name() string {
	return "command:" + c.path
}

func (c *Command) Available(context.Context) bool {
	_, err := exec.LookPath(c.path)
	return err == nil
}

func (c *Command) Generate(ctx context.Context, req Request) (string, error) {
	prompt := req.Prompt
	if len(req.Image) > 0 {
		prompt += req.DataURL()
	}

	cmd := exec.CommandContext(ctx, c.path, c.args...)
	cmd.Stdin = strings.NewReader(prompt)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := fmt.Sprintf("%s exited: %s", c.path, strings.TrimSpace(stderr.String()))
		return "", errors.NewBackendError(msg, c.Name(), "generate", err)
	}
	return stdout.String(), nil
}
