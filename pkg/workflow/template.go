package workflow

import (
	"fmt"
	"log"
	"os"
	"regexp"

	"github.com/upshift-dev/upshift/pkg/types"
	"gopkg.in/yaml.v3"
)

// VarContext holds resolved substitution variables for a run.
type VarContext map[string]string

// varRegex is a package-level compiled regular expression for matching {{ varName }} placeholders.
var varRegex = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9\._-]+)\s*\}\}`)

// envRe matches varfile values that are a single {{ env.NAME }} reference.
var envRe = regexp.MustCompile(`^\s*\{\{\s*env\.([A-Za-z0-9_]+)\s*}}\s*$`)

// ResolveVarfile loads a YAML varfile, parses it, and resolves {{ env.* }} values.
func ResolveVarfile(path string) (VarContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading varfile %q: %w", path, err)
	}

	var rawVars map[string]string
	if err := yaml.Unmarshal(data, &rawVars); err != nil {
		return nil, fmt.Errorf("parsing varfile YAML from %q: %w", path, err)
	}

	resolvedCtx := make(VarContext, len(rawVars))
	for key, val := range rawVars {
		if envRe.MatchString(val) {
			match := envRe.FindStringSubmatch(val)
			envKey := match[1]
			envVal, exists := os.LookupEnv(envKey)
			if !exists {
				log.Printf("warning: environment variable %q not found for varfile key %q", envKey, key)
			}
			resolvedCtx[key] = envVal
		} else {
			resolvedCtx[key] = val
		}
	}
	return resolvedCtx, nil
}

// ResolveString substitutes every {{ var }} placeholder in input. Keys with
// an env. prefix resolve from the process environment; anything else must be
// present in vars. An undefined variable is an error.
func ResolveString(input string, vars VarContext) (string, error) {
	var firstErr error
	output := varRegex.ReplaceAllStringFunc(input, func(match string) string {
		if firstErr != nil {
			return match // Stop processing if an error has occurred
		}

		key := varRegex.FindStringSubmatch(match)[1]

		if m := envRe.FindStringSubmatch(match); m != nil {
			if envVal, ok := os.LookupEnv(m[1]); ok {
				return envVal
			}
			firstErr = fmt.Errorf("undefined environment variable: %s", m[1])
			return match
		}

		val, found := vars[key]
		if !found {
			firstErr = fmt.Errorf("undefined variable: %s", key)
			return match
		}
		return val
	})

	if firstErr != nil {
		return "", firstErr
	}
	return output, nil
}

// ResolveStep returns a copy of step with every templated field substituted
// from vars. The original step is never modified.
func ResolveStep(step types.Step, vars VarContext) (*types.Step, error) {
	resolved := step

	if len(step.Command) > 0 {
		resolved.Command = make([]string, len(step.Command))
		for i, arg := range step.Command {
			out, err := ResolveString(arg, vars)
			if err != nil {
				return nil, fmt.Errorf("resolving command[%d] for step %q: %w", i, step.ID, err)
			}
			resolved.Command[i] = out
		}
	}

	var err error
	resolved.Inline, err = ResolveString(step.Inline, vars)
	if err != nil {
		return nil, fmt.Errorf("resolving inline for step %q: %w", step.ID, err)
	}

	resolved.Dir, err = ResolveString(step.Dir, vars)
	if err != nil {
		return nil, fmt.Errorf("resolving dir for step %q: %w", step.ID, err)
	}

	if len(step.Env) > 0 {
		resolved.Env = make(map[string]string, len(step.Env))
		for k, v := range step.Env {
			out, err := ResolveString(v, vars)
			if err != nil {
				return nil, fmt.Errorf("resolving env[%s] for step %q: %w", k, step.ID, err)
			}
			resolved.Env[k] = out
		}
	}

	return &resolved, nil
}
