package config

import (
	"fmt"
	"sort"
	"strings"

	"go.trai.ch/zr/internal/core/domain"
	"go.trai.ch/zerr"
)

// expandTemplates resolves every task's `template`/`params` reference into a
// concrete TaskDTO, substituting ${param} placeholders in the template body
// with the task's supplied values. Tasks that don't reference a template
// pass through unchanged.
func expandTemplates(tasks map[string]*TaskDTO, templates map[string]*TemplateDTO) (map[string]*TaskDTO, error) {
	out := make(map[string]*TaskDTO, len(tasks))

	for name, dto := range tasks {
		if dto.Template == "" {
			out[name] = dto
			continue
		}

		tmpl, ok := templates[dto.Template]
		if !ok {
			err := zerr.With(domain.ErrTemplateExpansionFailed, "template", dto.Template)
			return nil, zerr.With(err, "task", name)
		}

		for _, p := range tmpl.Params {
			if _, ok := dto.Params[p]; !ok {
				err := zerr.With(domain.ErrTemplateExpansionFailed, "missing_param", p)
				return nil, zerr.With(err, "task", name)
			}
		}

		expanded := substituteParams(tmpl.Body.clone(), dto.Params)
		mergeTaskOverrides(expanded, dto)
		out[name] = expanded
	}

	return out, nil
}

// substituteParams replaces ${param} occurrences across every string-bearing
// field of a TaskDTO with the corresponding value from params.
func substituteParams(dto *TaskDTO, params map[string]string) *TaskDTO {
	sub := func(s string) string {
		for k, v := range params {
			s = strings.ReplaceAll(s, "${"+k+"}", v)
		}
		return s
	}
	subAll := func(ss []string) []string {
		out := make([]string, len(ss))
		for i, s := range ss {
			out[i] = sub(s)
		}
		return out
	}

	dto.Input = subAll(dto.Input)
	dto.Cmd = subAll(dto.Cmd)
	dto.Target = subAll(dto.Target)
	dto.WorkingDir = sub(dto.WorkingDir)
	dto.Condition = sub(dto.Condition)

	env := make(map[string]string, len(dto.Environment))
	for k, v := range dto.Environment {
		env[k] = sub(v)
	}
	dto.Environment = env

	return dto
}

// mergeTaskOverrides layers the fields a task set alongside its `template`
// reference on top of the expanded template body; a zero-value field on the
// overriding task (the common case) leaves the template's value untouched.
func mergeTaskOverrides(base, override *TaskDTO) {
	if len(override.DependsOn) > 0 {
		base.DependsOn = override.DependsOn
	}
	if len(override.DependsOnSerial) > 0 {
		base.DependsOnSerial = override.DependsOnSerial
	}
	if len(override.Tags) > 0 {
		base.Tags = override.Tags
	}
	if len(override.Toolchain) > 0 {
		base.Toolchain = override.Toolchain
	}
	if len(override.Matrix) > 0 {
		base.Matrix = override.Matrix
	}
	if override.Condition != "" {
		base.Condition = override.Condition
	}
	if override.WorkingDir != "" {
		base.WorkingDir = override.WorkingDir
	}
	if override.AllowFailure {
		base.AllowFailure = true
	}
	if override.Cache {
		base.Cache = true
	}
	if override.TimeoutMS != 0 {
		base.TimeoutMS = override.TimeoutMS
	}
	if override.MaxConcurrent != 0 {
		base.MaxConcurrent = override.MaxConcurrent
	}
	if override.Retry != nil {
		base.Retry = override.Retry
	}
	if override.Limits != nil {
		base.Limits = override.Limits
	}
	for k, v := range override.Environment {
		base.Environment[k] = v
	}
}

// expandMatrices turns every task with a non-empty `matrix` into one variant
// TaskDTO per Cartesian-product combination, plus a no-op parent TaskDTO
// that depends on every variant so existing references to the base task
// name continue to mean "all variants done."
func expandMatrices(tasks map[string]*TaskDTO) (map[string]*TaskDTO, error) {
	out := make(map[string]*TaskDTO, len(tasks))

	for name, dto := range tasks {
		if len(dto.Matrix) == 0 {
			out[name] = dto
			continue
		}

		dims := make([]string, 0, len(dto.Matrix))
		for k := range dto.Matrix {
			dims = append(dims, k)
		}
		sort.Strings(dims)

		combos := cartesianProduct(dto.Matrix, dims)
		if len(combos) == 0 {
			return nil, zerr.With(domain.ErrMatrixExpansionFailed, "task", name)
		}

		variantNames := make([]string, 0, len(combos))
		for _, combo := range combos {
			variantName := matrixVariantName(name, dims, combo)
			variantNames = append(variantNames, variantName)
			out[variantName] = substituteParams(dto.clone(), combo)
			out[variantName].Matrix = nil
		}

		parent := dto.clone()
		parent.Cmd = nil
		parent.Matrix = nil
		parent.DependsOn = append(parent.DependsOn, variantNames...)
		parent.matrixVariants = variantNames
		out[name] = parent
	}

	return out, nil
}

func matrixVariantName(base string, dims []string, combo map[string]string) string {
	var b strings.Builder
	b.WriteString(base)
	for _, d := range dims {
		fmt.Fprintf(&b, ":%s=%s", d, combo[d])
	}
	return b.String()
}

// cartesianProduct enumerates every combination of matrix dimension values,
// iterating dims in the given (already sorted) order for determinism.
func cartesianProduct(matrix map[string][]string, dims []string) []map[string]string {
	combos := []map[string]string{{}}

	for _, dim := range dims {
		values := matrix[dim]
		next := make([]map[string]string, 0, len(combos)*len(values))
		for _, combo := range combos {
			for _, v := range values {
				c := make(map[string]string, len(combo)+1)
				for k, vv := range combo {
					c[k] = vv
				}
				c[dim] = v
				next = append(next, c)
			}
		}
		combos = next
	}

	return combos
}
