package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// project is a temporary directory holding a workflow file and its state
type project struct {
	dir string
}

func newProject(t *testing.T, workflow string) *project {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stepflow.yaml"), []byte(workflow), 0644))
	return &project{dir: dir}
}

func (p *project) stateDir() string {
	return filepath.Join(p.dir, ".stepflow")
}

// execute runs one stepflow invocation against the project and returns
// stdout and stderr
func (p *project) execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{
		"--file", filepath.Join(p.dir, "stepflow.yaml"),
		"--dir", p.stateDir(),
		"--no-color",
	}, args...))

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

const abcWorkflow = `
env:
  GREETING: hello
steps:
  a:
    cmd: echo "$GREETING from a"
    tags: [first]
  b:
    cmd: "false"
    deps: [a]
  c:
    cmd: echo c
    deps: [a]
  d:
    cmd: echo d
    deps: [b, c]
`
