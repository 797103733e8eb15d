package plugins

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2/hclparse"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"gopkg.in/yaml.v3"
)

func decodeJSON(path string) (Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var module Module
	if err := json.Unmarshal(data, &module); err != nil {
		return nil, fmt.Errorf("failed to parse JSON module: %w", err)
	}
	return module, nil
}

func decodeYAML(path string) (Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var module Module
	if err := yaml.Unmarshal(data, &module); err != nil {
		return nil, fmt.Errorf("failed to parse YAML module: %w", err)
	}
	return module, nil
}

func decodeTOML(path string) (Module, error) {
	var module Module
	if _, err := toml.DecodeFile(path, &module); err != nil {
		return nil, fmt.Errorf("failed to parse TOML module: %w", err)
	}
	return module, nil
}

// decodeHCL evaluates every top-level attribute without an evaluation
// context, so only literal expressions are allowed.
func decodeHCL(path string) (Module, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL module: %w", diags)
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to read HCL attributes: %w", diags)
	}

	module := make(Module, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to evaluate %s: %w", name, diags)
		}

		raw, err := ctyjson.Marshal(val, val.Type())
		if err != nil {
			return nil, fmt.Errorf("failed to convert %s: %w", name, err)
		}

		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("failed to convert %s: %w", name, err)
		}
		module[name] = v
	}
	return module, nil
}
