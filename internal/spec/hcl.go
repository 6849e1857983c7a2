package spec

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// decodeHCL reads the HCL form of a workflow. Like decodeYAML it only fails
// when the file cannot be parsed at all:
//
//	env = { KEY = "value" }
//
//	step "build" {
//	  cmd  = "make"
//	  deps = ["fetch"]
//	}
func decodeHCL(path string, data []byte) (*Workflow, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, diags
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("unexpected HCL body type %T", file.Body)
	}

	wf := &Workflow{Path: path, Env: map[string]string{}}
	baseDir := filepath.Dir(path)

	for _, name := range sortedAttributeNames(body.Attributes) {
		attr := body.Attributes[name]
		switch name {
		case "env":
			env, err := evalEnv(attr.Expr)
			if err != nil {
				wf.Errors = append(wf.Errors, fmt.Errorf("%s: env: %w", attr.SrcRange, err))
				continue
			}
			wf.Env = env
		default:
			wf.UnknownFields = append(wf.UnknownFields, name)
		}
	}

	for _, block := range body.Blocks {
		if block.Type != "step" {
			wf.UnknownFields = append(wf.UnknownFields, block.Type)
			continue
		}
		if len(block.Labels) != 1 {
			wf.Errors = append(wf.Errors, fmt.Errorf("%s: step block needs exactly one name label", block.DefRange()))
			continue
		}
		wf.Steps = append(wf.Steps, decodeStepBlock(block, baseDir))
	}

	return wf, nil
}

func decodeStepBlock(block *hclsyntax.Block, baseDir string) StepDefinition {
	step := StepDefinition{Name: block.Labels[0], Cwd: baseDir, Log: LogModeFile}

	for _, name := range sortedAttributeNames(block.Body.Attributes) {
		attr := block.Body.Attributes[name]
		var err error
		switch name {
		case "cmd":
			step.Command, err = evalString(attr.Expr)
		case "cwd":
			var cwd string
			if cwd, err = evalString(attr.Expr); err == nil {
				step.Cwd = resolveDir(baseDir, cwd)
			}
		case "description":
			step.Description, err = evalString(attr.Expr)
		case "env":
			step.Env, err = evalEnv(attr.Expr)
		case "tags":
			step.Tags, err = evalStringList(attr.Expr)
		case "log":
			var mode string
			if mode, err = evalString(attr.Expr); err == nil {
				step.Log, err = ParseLogMode(mode)
			}
		case "deps":
			deps, derr := evalStringList(attr.Expr)
			step.Deps, step.DepsMalformed = deps, derr != nil
		default:
			step.UnknownFields = append(step.UnknownFields, name)
		}
		if err != nil {
			step.FieldErrors = append(step.FieldErrors, fmt.Errorf("%s: %s: %w", attr.SrcRange, name, err))
		}
	}
	for _, nested := range block.Body.Blocks {
		step.UnknownFields = append(step.UnknownFields, nested.Type)
	}

	if step.Command == "" {
		step.FieldErrors = append(step.FieldErrors, fmt.Errorf("%s: cmd is required", block.DefRange()))
	}
	return step
}

func evalValue(expr hcl.Expression) (cty.Value, error) {
	value, diags := expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	if !value.IsWhollyKnown() {
		return cty.NilVal, fmt.Errorf("value must be known")
	}
	return value, nil
}

func evalString(expr hcl.Expression) (string, error) {
	value, err := evalValue(expr)
	if err != nil {
		return "", err
	}
	if value.IsNull() {
		return "", nil
	}
	str, err := convert.Convert(value, cty.String)
	if err != nil {
		return "", fmt.Errorf("must be a string: %w", err)
	}
	return str.AsString(), nil
}

func evalStringList(expr hcl.Expression) ([]string, error) {
	value, err := evalValue(expr)
	if err != nil {
		return nil, err
	}
	if value.IsNull() {
		return nil, nil
	}
	if !value.Type().IsTupleType() && !value.Type().IsListType() {
		return nil, fmt.Errorf("must be a list of strings")
	}

	var out []string
	for it := value.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		if elem.IsNull() || elem.Type() != cty.String {
			return nil, fmt.Errorf("must be a list of strings")
		}
		out = append(out, elem.AsString())
	}
	return out, nil
}

func evalEnv(expr hcl.Expression) (map[string]string, error) {
	value, err := evalValue(expr)
	if err != nil {
		return nil, err
	}
	env := map[string]string{}
	if value.IsNull() {
		return env, nil
	}

	converted, err := convert.Convert(value, cty.Map(cty.String))
	if err != nil {
		return nil, fmt.Errorf("must be a map of variable name to string: %w", err)
	}
	for key, v := range converted.AsValueMap() {
		if v.IsNull() {
			env[key] = ""
			continue
		}
		env[key] = v.AsString()
	}
	return env, nil
}

func sortedAttributeNames(attrs hclsyntax.Attributes) []string {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
