package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/stepflow/internal/checkpoint"
	"github.com/felixgeelhaar/stepflow/internal/exec"
	"github.com/felixgeelhaar/stepflow/internal/flow"
	"github.com/felixgeelhaar/stepflow/internal/log"
	"github.com/felixgeelhaar/stepflow/internal/spec"
	"github.com/felixgeelhaar/stepflow/internal/ux"
	"github.com/felixgeelhaar/stepflow/internal/version"
	"github.com/felixgeelhaar/stepflow/internal/workflow"
)

// session is everything a command needs, resolved once from flags and
// config.yaml
type session struct {
	cmdCtx *CommandContext
	config Config
	paths  *ux.PathDefaults
	logger *log.Logger
	store  *checkpoint.Store
	out    io.Writer
	errOut io.Writer
}

func newSession(cmd *cobra.Command) (*session, error) {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return nil, err
	}

	paths := ux.NewPathDefaults(cmdCtx.StateDir)

	cfg, err := LoadConfig(paths.ConfigFile())
	if err != nil {
		return nil, err
	}
	if err := cfg.Apply(cmdCtx); err != nil {
		return nil, err
	}

	out, errOut := syncWriter(cmd.OutOrStdout()), syncWriter(cmd.ErrOrStderr())

	logCfg := cfg.LogConfig(errOut)
	logCfg.ServiceVersion = version.GetInfo().Short()
	logger := log.New(logCfg).WithInvocation().With("command", cmd.Name())

	return &session{
		cmdCtx: cmdCtx,
		config: cfg,
		paths:  paths,
		logger: logger,
		store:  checkpoint.NewStore(paths.SnapshotFile()),
		out:    out,
		errOut: errOut,
	}, nil
}

// workflowPath returns --file or the workflow discovered in the current
// directory
func (s *session) workflowPath() (string, error) {
	if s.cmdCtx.WorkflowFile != "" {
		return s.cmdCtx.WorkflowFile, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return spec.Discover(cwd)
}

// loadFlow builds the flow from the workflow file and the persisted
// snapshot, with every step state evaluated
func (s *session) loadFlow() (*flow.Flow, error) {
	path, err := s.workflowPath()
	if err != nil {
		return nil, err
	}

	wf, err := spec.NewFileLoader().Load(path)
	if err != nil {
		return nil, err
	}

	snap, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	f, err := flow.Build(wf, snap.Steps)
	if err != nil {
		return nil, err
	}
	f.Clean()

	s.logger.Debug("workflow loaded", "path", wf.Path, "steps", f.Len(), "snapshot", s.store.Path())
	return f, nil
}

func (s *session) newEngine(f *flow.Flow, opts ...workflow.Option) *workflow.Engine {
	runner := exec.NewShellRunner(s.config.Shell, s.logger)
	runner.Stdout = s.out
	runner.Stderr = s.errOut

	base := []workflow.Option{
		workflow.WithLogger(s.logger),
		workflow.WithRetention(s.config.Retention),
		workflow.WithMaxParallel(s.config.MaxParallel),
		workflow.WithLogDir(s.paths.LogDir()),
	}
	return workflow.NewEngine(f, s.store, runner, append(base, opts...)...)
}

func (s *session) styles() ux.Styles {
	return ux.NewStyles(s.cmdCtx.NoColor)
}

func (s *session) formatter() (ux.Formatter, error) {
	return ux.NewFormatter(s.cmdCtx.Format, &ux.FormatterOptions{Writer: s.out})
}
