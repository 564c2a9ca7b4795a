package prune

import (
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
)

// CompileFilter compiles an expr filter expression into a Filter. Expressions
// see the candidate's Name, Path, Size and ModTime plus a small set of helper
// functions, e.g.:
//
//	daysSince(ModTime) > 45 && Size > 1024*1024*1024
//	contains(Name, "20240101")
func CompileFilter(expression string) (Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, fmt.Errorf("empty filter expression")
	}

	// Compile with static environment for validation
	program, err := expr.Compile(expression,
		expr.Env(helperFunctions()),
		expr.AllowUndefinedVariables(), // Allow candidate properties
		expr.AsBool(),                  // Ensure boolean result
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile filter expression: %w", err)
	}

	return func(c Candidate) bool {
		result, err := expr.Run(program, runtimeEnvironment(c))
		if err != nil {
			// Skip candidates that cause evaluation errors rather than
			// deleting on a broken predicate.
			return false
		}
		return result.(bool)
	}, nil
}

// helperFunctions creates the static helper functions used during compilation
func helperFunctions() map[string]any {
	env := make(map[string]any, 16)

	// Date helpers
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	// String helpers
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	// Current time
	env["now"] = time.Now

	return env
}

// runtimeEnvironment creates the runtime environment for filter evaluation
func runtimeEnvironment(c Candidate) map[string]any {
	env := helperFunctions()

	env["Name"] = c.Name
	env["Path"] = c.Path
	env["Size"] = c.Size
	env["ModTime"] = c.ModTime

	return env
}
