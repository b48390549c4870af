package view

import (
	"fmt"

	"github.com/expr-lang/expr"
	json "github.com/goccy/go-json"
)

// Where keeps the items for which expression evaluates to true. Fields are
// addressed by their JSON names, e.g. `role == "admin"` or
// `id > 10 && user != "ana"`.
func Where[T any](items []T, expression string) ([]T, error) {
	if expression == "" {
		return items, nil
	}
	program, err := expr.Compile(expression,
		expr.Env(map[string]any{}),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", expression, err)
	}

	out := make([]T, 0, len(items))
	for _, it := range items {
		env, err := toEnv(it)
		if err != nil {
			return nil, err
		}
		result, err := expr.Run(program, env)
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", expression, err)
		}
		if keep, _ := result.(bool); keep {
			out = append(out, it)
		}
	}
	return out, nil
}

func toEnv(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode item: %w", err)
	}
	env := map[string]any{}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode item: %w", err)
	}
	return env, nil
}
