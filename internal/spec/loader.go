package spec

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	sferrors "github.com/felixgeelhaar/stepflow/internal/errors"
)

// DefaultFileNames are probed in order when no workflow file is given
var DefaultFileNames = []string{"stepflow.yaml", "stepflow.yml", "stepflow.hcl"}

// Loader reads workflow definitions from disk.
type Loader interface {
	Load(path string) (*Workflow, error)
}

// FileLoader picks a decoder by file extension.
type FileLoader struct{}

// NewFileLoader creates a new file-based workflow loader
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load reads a workflow from path. Files ending in .hcl are decoded as HCL,
// everything else as YAML (which also covers JSON).
func (l *FileLoader) Load(path string) (*Workflow, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, sferrors.Wrap(sferrors.ErrCodeFileReadFailed, "resolve workflow path", err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, sferrors.NewWorkflowNotFoundError(path)
		}
		return nil, sferrors.Wrap(sferrors.ErrCodeFileReadFailed, fmt.Sprintf("read workflow file %s", path), err)
	}

	var wf *Workflow
	if strings.EqualFold(filepath.Ext(abs), ".hcl") {
		wf, err = decodeHCL(abs, data)
	} else {
		wf, err = decodeYAML(abs, data)
	}
	if err != nil {
		return nil, sferrors.NewWorkflowParseError(path, err)
	}
	return wf, nil
}

// Load reads a workflow using the default file loader.
func Load(path string) (*Workflow, error) {
	return NewFileLoader().Load(path)
}

// Discover returns the first default workflow file present in dir.
func Discover(dir string) (string, error) {
	for _, name := range DefaultFileNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", sferrors.NewWorkflowNotFoundError("")
}

// decodeYAML only fails on malformed YAML or a non-mapping document. Problems
// with individual values are recorded on the Workflow so that Build can report
// them alongside graph errors.
func decodeYAML(path string, data []byte) (*Workflow, error) {
	wf := &Workflow{Path: path, Env: map[string]string{}}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return wf, nil
	}

	root := doc.Content[0]
	if isNull(root) {
		return wf, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: workflow must be a mapping", root.Line)
	}

	baseDir := filepath.Dir(path)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		switch key.Value {
		case "env":
			env, err := decodeEnvNode(value)
			if err != nil {
				wf.Errors = append(wf.Errors, fmt.Errorf("line %d: env: %w", value.Line, err))
				continue
			}
			wf.Env = env
		case "steps":
			if isNull(value) {
				continue
			}
			if value.Kind != yaml.MappingNode {
				wf.Errors = append(wf.Errors, fmt.Errorf("line %d: steps must be a mapping of step name to definition", value.Line))
				continue
			}
			for j := 0; j+1 < len(value.Content); j += 2 {
				name, body := value.Content[j], value.Content[j+1]
				wf.Steps = append(wf.Steps, decodeStepNode(name.Value, body, baseDir))
			}
		default:
			wf.UnknownFields = append(wf.UnknownFields, key.Value)
		}
	}
	return wf, nil
}

func decodeStepNode(name string, node *yaml.Node, baseDir string) StepDefinition {
	step := StepDefinition{Name: name, Cwd: baseDir, Log: LogModeFile}
	if node.Kind != yaml.MappingNode {
		step.FieldErrors = append(step.FieldErrors, fmt.Errorf("line %d: definition must be a mapping", node.Line))
		return step
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		var err error
		switch key.Value {
		case "cmd":
			err = decodeScalar(value, &step.Command)
		case "cwd":
			var cwd string
			if err = decodeScalar(value, &cwd); err == nil {
				step.Cwd = resolveDir(baseDir, cwd)
			}
		case "description":
			err = decodeScalar(value, &step.Description)
		case "env":
			step.Env, err = decodeEnvNode(value)
		case "tags":
			err = value.Decode(&step.Tags)
		case "log":
			var mode string
			if err = decodeScalar(value, &mode); err == nil {
				step.Log, err = ParseLogMode(mode)
			}
		case "deps":
			step.Deps, step.DepsMalformed = decodeDepsNode(value)
		default:
			step.UnknownFields = append(step.UnknownFields, key.Value)
		}
		if err != nil {
			step.FieldErrors = append(step.FieldErrors, fmt.Errorf("line %d: %s: %w", value.Line, key.Value, err))
		}
	}

	if step.Command == "" {
		step.FieldErrors = append(step.FieldErrors, fmt.Errorf("line %d: cmd is required", node.Line))
	}
	return step
}

// decodeDepsNode accepts null or a sequence of string scalars. Anything else is
// reported back as malformed so the graph builder can collect it.
func decodeDepsNode(node *yaml.Node) ([]string, bool) {
	if isNull(node) {
		return nil, false
	}
	if node.Kind != yaml.SequenceNode {
		return nil, true
	}
	deps := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
			return nil, true
		}
		deps = append(deps, item.Value)
	}
	return deps, false
}

func decodeEnvNode(node *yaml.Node) (map[string]string, error) {
	env := map[string]string{}
	if isNull(node) {
		return env, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("must be a mapping of variable name to value")
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if _, dup := env[key.Value]; dup {
			return nil, fmt.Errorf("variable %q defined twice", key.Value)
		}
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("variable %q must be a scalar", key.Value)
		}
		env[key.Value] = value.Value
	}
	return env, nil
}

func decodeScalar(node *yaml.Node, out *string) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("must be a string")
	}
	if isNull(node) {
		*out = ""
		return nil
	}
	*out = node.Value
	return nil
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}

func resolveDir(baseDir, dir string) string {
	if dir == "" {
		return baseDir
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(baseDir, dir)
}
