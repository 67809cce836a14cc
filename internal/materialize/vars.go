package materialize

import (
	"path/filepath"
	"regexp"

	"github.com/airc-dev/airc/internal/paths"
)

// varPattern matches ${name} template variables. Names are lowercase,
// so shell variables like ${HOME} in hook commands pass through
// untouched.
var varPattern = regexp.MustCompile(`\$\{([a-z][a-z0-9_]*)\}`)

// Vars builds the interpolation table for a project root:
//
//	${project_root}  absolute project root
//	${project_name}  base name of the project root
//	${home}          the user's home directory
func Vars(projectRoot string) map[string]string {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		abs = projectRoot
	}
	return map[string]string{
		"project_root": abs,
		"project_name": filepath.Base(abs),
		"home":         paths.Home(),
	}
}

// Interpolate replaces ${name} occurrences from vars. Unknown variables
// stay as written: downstream tooling may own them.
func Interpolate(s string, vars map[string]string) string {
	if s == "" || len(vars) == 0 {
		return s
	}
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := match[2 : len(match)-1]
		if value, ok := vars[name]; ok {
			return value
		}
		return match
	})
}

// interpolateMap applies Interpolate to every value of m, returning a
// fresh map when anything changed.
func interpolateMap(m map[string]string, vars map[string]string) map[string]string {
	if len(m) == 0 {
		return m
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = Interpolate(v, vars)
	}
	return out
}

// interpolateSlice applies Interpolate to every element.
func interpolateSlice(s []string, vars map[string]string) []string {
	if len(s) == 0 {
		return s
	}
	out := make([]string, len(s))
	for i, v := range s {
		out[i] = Interpolate(v, vars)
	}
	return out
}
