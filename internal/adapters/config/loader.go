// Package config provides the configuration loader for zr.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.trai.ch/zr/internal/core/domain"
	"go.trai.ch/zr/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger   ports.Logger
	validate *validator.Validate
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, validate: validator.New()}
}

// Mode represents the configuration mode of zr.
type Mode string

const (
	// WorkfileName represents the name of a workspace file.
	WorkfileName = "zr.work.yaml"
	// ZrfileName represents the name of a standalone config file.
	ZrfileName = "zr.yaml"
	// ModeWorkspace indicates that zr has a workfile.
	ModeWorkspace Mode = "workspace"
	// ModeStandalone indicates that zr has only one zrfile.
	ModeStandalone Mode = "standalone"
)

var validProjectNameRegex = regexp.MustCompile("^[a-zA-Z0-9_-]+$")

// Load reads a configuration file from the given path and returns a domain.Graph.
func (l *Loader) Load(cwd string) (*domain.Graph, error) {
	l.loadDotEnv(cwd)

	configPath, mode, err := l.findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	switch mode {
	case ModeStandalone:
		return l.loadZrfile(configPath)
	case ModeWorkspace:
		return l.loadWorkfile(configPath)
	default:
		return nil, zerr.With(domain.ErrConfigNotFound, "mode", mode)
	}
}

// loadDotEnv merges a .env file found at cwd (if any) under the process
// environment; task-level `environment` entries still take precedence
// over it since the executor applies them on top of the process
// environment.
func (l *Loader) loadDotEnv(cwd string) {
	envPath := filepath.Join(cwd, ".env")
	if _, err := os.Stat(envPath); err != nil {
		return
	}
	if err := godotenv.Load(envPath); err != nil {
		l.Logger.Warn(fmt.Sprintf("failed to load %s: %v", envPath, err))
	}
}

func (l *Loader) findConfiguration(cwd string) (string, Mode, error) {
	currentDir := cwd
	var standaloneCandidate string

	for {
		workfilePath := filepath.Join(currentDir, WorkfileName)
		if _, err := os.Stat(workfilePath); err == nil {
			return workfilePath, ModeWorkspace, nil
		}

		if standaloneCandidate == "" {
			zrfilePath := filepath.Join(currentDir, ZrfileName)
			if _, err := os.Stat(zrfilePath); err == nil {
				standaloneCandidate = zrfilePath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	if standaloneCandidate != "" {
		return standaloneCandidate, ModeStandalone, nil
	}

	return "", "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

func (l *Loader) loadZrfile(configPath string) (*domain.Graph, error) {
	var zrfile Zrfile
	if err := readAndUnmarshalYAML(configPath, &zrfile); err != nil {
		return nil, err
	}

	if zrfile.Project != "" {
		l.Logger.Warn(fmt.Sprintf("'project' defined in %s has no effect in standalone mode", ZrfileName))
	}

	g := domain.NewGraph()
	g.SetRoot(resolveRoot(configPath, zrfile.Root))

	for name := range zrfile.Tasks {
		if err := validateTaskName(name); err != nil {
			return nil, err
		}
	}

	expanded, err := expandTemplates(zrfile.Tasks, zrfile.Templates)
	if err != nil {
		return nil, err
	}
	expanded, err = expandMatrices(expanded)
	if err != nil {
		return nil, err
	}

	if err := l.validateTasks(expanded); err != nil {
		return nil, err
	}

	taskNames := make(map[string]bool, len(expanded))
	for name := range expanded {
		taskNames[name] = true
	}

	for _, name := range sortedKeys(expanded) {
		dto := expanded[name]

		deps := allDependsOn(dto)
		for _, dep := range deps {
			if !taskNames[dep] {
				return nil, zerr.With(domain.ErrMissingDependency, "missing_dependency", dep)
			}
		}

		workingDir := resolveTaskWorkingDir(g.Root(), dto.WorkingDir)
		task, err := buildTask(name, dto, workingDir, dto.DependsOn, dto.DependsOnSerial)
		if err != nil {
			return nil, err
		}

		if err := g.AddTask(task); err != nil {
			return nil, err
		}
	}

	if err := l.registerProfiles(g, zrfile.Profiles); err != nil {
		return nil, err
	}
	if err := l.registerWorkflows(g, zrfile.Workflows); err != nil {
		return nil, err
	}

	return g, nil
}

func (l *Loader) loadWorkfile(configPath string) (*domain.Graph, error) {
	var workfile Workfile
	if err := readAndUnmarshalYAML(configPath, &workfile); err != nil {
		return nil, err
	}

	g := domain.NewGraph()
	workspaceRoot := resolveRoot(configPath, workfile.Root)
	g.SetRoot(workspaceRoot)

	projectPaths, err := l.resolveProjectPaths(workspaceRoot, workfile.Projects)
	if err != nil {
		return nil, err
	}

	projectNames := make(map[string]string)

	if err := l.processProjects(g, workspaceRoot, projectPaths, projectNames); err != nil {
		return nil, err
	}

	return g, nil
}

func (l *Loader) resolveProjectPaths(workspaceRoot string, patterns []string) ([]string, error) {
	projectPaths := make(map[string]struct{})

	for _, pattern := range patterns {
		absPattern := filepath.Join(workspaceRoot, pattern)

		matches, err := filepath.Glob(absPattern)
		if err != nil {
			return nil, zerr.Wrap(err, "glob pattern failed: "+pattern)
		}

		for _, match := range matches {
			projectPaths[match] = struct{}{}
		}
	}

	sortedPaths := make([]string, 0, len(projectPaths))
	for p := range projectPaths {
		sortedPaths = append(sortedPaths, p)
	}
	slices.Sort(sortedPaths)

	return sortedPaths, nil
}

func (l *Loader) processProjects(
	g *domain.Graph, workspaceRoot string, projectPaths []string, projectNames map[string]string,
) error {
	for _, projectPath := range projectPaths {
		if err := l.processProject(g, workspaceRoot, projectPath, projectNames); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) processProject(
	g *domain.Graph, workspaceRoot, projectPath string, projectNames map[string]string,
) error {
	relPath, _ := filepath.Rel(workspaceRoot, projectPath)

	info, pathErr := os.Stat(projectPath)
	if pathErr != nil {
		return pathErr
	}
	if !info.IsDir() {
		return nil
	}

	zrYamlPath := filepath.Join(projectPath, ZrfileName)
	if _, fileErr := os.Stat(zrYamlPath); os.IsNotExist(fileErr) {
		l.Logger.Warn(fmt.Sprintf("%s missing in project %s, skipping", ZrfileName, relPath))
		return nil
	}

	zrfile, err := l.loadZrfileFromPath(zrYamlPath, relPath)
	if err != nil {
		return err
	}

	if err := l.validateZrfile(zrfile, relPath); err != nil {
		return err
	}

	if existingPath, exists := projectNames[zrfile.Project]; exists {
		err := zerr.With(domain.ErrDuplicateProjectName, "project_name", zrfile.Project)
		err = zerr.With(err, "first_occurrence", existingPath)
		err = zerr.With(err, "duplicate_at", relPath)
		return err
	}
	projectNames[zrfile.Project] = relPath

	if zrfile.Root != "" {
		l.Logger.Warn(fmt.Sprintf("'root' defined in %s is ignored in workspace mode", relPath))
	}

	return l.addProjectTasks(g, zrfile, projectPath)
}

func (l *Loader) loadZrfileFromPath(zrYamlPath, relPath string) (*Zrfile, error) {
	// #nosec G304 -- zrYamlPath is constructed from validated projectPath
	projectConfigFile, pathErr := os.ReadFile(zrYamlPath)
	if pathErr != nil {
		pathErr = zerr.Wrap(pathErr, domain.ErrConfigReadFailed.Error())
		pathErr = zerr.With(pathErr, "directory", relPath)
		return nil, pathErr
	}

	var zrfile Zrfile
	if err := yaml.Unmarshal(projectConfigFile, &zrfile); err != nil {
		return nil, zerr.Wrap(err, "failed to parse project config: "+relPath)
	}

	return &zrfile, nil
}

func (l *Loader) validateZrfile(zrfile *Zrfile, relPath string) error {
	if zrfile.Project == "" {
		return zerr.With(domain.ErrMissingProjectName, "directory", relPath)
	}

	if !validProjectNameRegex.MatchString(zrfile.Project) {
		err := zerr.With(domain.ErrInvalidProjectName, "project_name", zrfile.Project)
		return zerr.With(err, "directory", relPath)
	}

	return nil
}

func (l *Loader) addProjectTasks(g *domain.Graph, zrfile *Zrfile, projectPath string) error {
	for name := range zrfile.Tasks {
		if err := validateTaskName(name); err != nil {
			return err
		}
	}

	expanded, err := expandTemplates(zrfile.Tasks, zrfile.Templates)
	if err != nil {
		return zerr.Wrap(err, "failed to expand templates for project "+zrfile.Project)
	}
	expanded, err = expandMatrices(expanded)
	if err != nil {
		return zerr.Wrap(err, "failed to expand matrices for project "+zrfile.Project)
	}

	if err := l.validateTasks(expanded); err != nil {
		return err
	}

	for _, taskName := range sortedKeys(expanded) {
		dto := expanded[taskName]

		dto.Input, err = l.rebasePaths(dto.Input, projectPath, g.Root())
		if err != nil {
			return zerr.Wrap(err, "failed to rebase inputs for project "+zrfile.Project)
		}

		dto.Target, err = l.rebasePaths(dto.Target, projectPath, g.Root())
		if err != nil {
			return zerr.Wrap(err, "failed to rebase targets for project "+zrfile.Project)
		}

		namespacedTaskName := fmt.Sprintf("%s:%s", zrfile.Project, taskName)
		namespacedDeps := l.namespaceDependencies(zrfile.Project, dto.DependsOn)
		namespacedSerial := l.namespaceDependencies(zrfile.Project, dto.DependsOnSerial)
		workingDir := resolveTaskWorkingDir(projectPath, dto.WorkingDir)

		task, err := buildTask(namespacedTaskName, dto, workingDir, namespacedDeps, namespacedSerial)
		if err != nil {
			return err
		}

		if err := g.AddTask(task); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) rebasePaths(paths []string, base, root string) ([]string, error) {
	rebased := make([]string, len(paths))
	for i, p := range paths {
		abs := filepath.Join(base, p)
		rel, err := filepath.Rel(root, abs)
		if err != nil {
			return nil, err
		}
		rebased[i] = rel
	}
	return rebased, nil
}

func (l *Loader) namespaceDependencies(projectName string, deps []string) []string {
	namespacedDeps := make([]string, 0, len(deps))
	for _, dep := range deps {
		if isCrossProjectRef(dep) {
			namespacedDeps = append(namespacedDeps, dep)
		} else {
			namespacedDeps = append(namespacedDeps, fmt.Sprintf("%s:%s", projectName, dep))
		}
	}
	return namespacedDeps
}

// isCrossProjectRef reports whether dep already names another project's task
// ("project:task"), as opposed to a same-project matrix variant name like
// "build:os=linux" whose colon is part of the variant syntax, not a
// project qualifier.
func isCrossProjectRef(dep string) bool {
	_, rest, found := strings.Cut(dep, ":")
	return found && !strings.Contains(rest, "=")
}

// validateTasks runs struct-tag validation over every expanded task DTO,
// catching malformed retry/timeout/matrix shapes before they're normalized
// into domain.Task.
func (l *Loader) validateTasks(tasks map[string]*TaskDTO) error {
	for name, dto := range tasks {
		if dto.Retry != nil {
			if err := l.validate.Struct(dto.Retry); err != nil {
				return zerr.With(zerr.Wrap(err, domain.ErrConfigValidationFailed.Error()), "task", name)
			}
		}
		if dto.Limits != nil {
			if err := l.validate.Struct(dto.Limits); err != nil {
				return zerr.With(zerr.Wrap(err, domain.ErrConfigValidationFailed.Error()), "task", name)
			}
		}
		if dto.TimeoutMS < 0 || dto.MaxConcurrent < 0 {
			return zerr.With(domain.ErrConfigValidationFailed, "task", name)
		}
	}
	return nil
}

func (l *Loader) registerProfiles(g *domain.Graph, profiles map[string]*ProfileDTO) error {
	for name, dto := range profiles {
		overrides := make(map[string]domain.TaskOverride, len(dto.Tasks))
		for taskName, ov := range dto.Tasks {
			override := domain.TaskOverride{Environment: ov.Environment}
			if ov.TimeoutMS != nil {
				override.Timeout = ov.TimeoutMS
			}
			if ov.Retry != nil {
				policy := retryPolicyFromDTO(ov.Retry)
				override.Retry = &policy
			}
			overrides[taskName] = override
		}
		g.AddProfile(domain.Profile{
			Name:          name,
			Environment:   dto.Environment,
			TaskOverrides: overrides,
		})
	}
	return nil
}

func (l *Loader) registerWorkflows(g *domain.Graph, workflows map[string]*WorkflowDTO) error {
	for name, dto := range workflows {
		stages := make([]domain.Stage, 0, len(dto.Stages))
		for _, s := range dto.Stages {
			if err := l.validate.Struct(s); err != nil {
				return zerr.With(zerr.Wrap(err, domain.ErrConfigValidationFailed.Error()), "workflow", name)
			}
			stages = append(stages, domain.Stage{
				Name:      domain.NewInternedString(s.Name),
				Targets:   domain.NewInternedStrings(s.Targets),
				Parallel:  s.Parallel,
				Condition: s.Condition,
				FailFast:  s.FailFast,
				OnFailure: domain.NewInternedString(s.OnFailure),
				Approval:  s.Approval,
			})
		}
		g.AddWorkflow(domain.Workflow{Name: domain.NewInternedString(name), Stages: stages})
	}
	return nil
}

func canonicalizeStrings(strs []string) []domain.InternedString {
	if len(strs) == 0 {
		return nil
	}

	sorted := make([]string, len(strs))
	copy(sorted, strs)
	slices.Sort(sorted)

	unique := slices.Compact(sorted)
	return domain.NewInternedStrings(unique)
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is validated by caller
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}

// validateTaskName checks if the task name is reserved or contains invalid characters.
func validateTaskName(name string) error {
	if name == "all" {
		return zerr.With(domain.ErrReservedTaskName, "task_name", name)
	}
	if strings.Contains(name, ":") {
		err := zerr.With(domain.ErrInvalidTaskName, "invalid_character", ":")
		return zerr.With(err, "task_name", name)
	}
	return nil
}

func allDependsOn(dto *TaskDTO) []string {
	out := make([]string, 0, len(dto.DependsOn)+len(dto.DependsOnSerial))
	out = append(out, dto.DependsOn...)
	out = append(out, dto.DependsOnSerial...)
	return out
}

func retryPolicyFromDTO(dto *RetryDTO) domain.RetryPolicy {
	backoff := domain.BackoffLinear
	if dto.Backoff == string(domain.BackoffExponential) {
		backoff = domain.BackoffExponential
	}
	return domain.RetryPolicy{
		Max:     dto.Max,
		Delay:   time.Duration(dto.DelayMS) * time.Millisecond,
		Backoff: backoff,
	}
}

// buildTask creates a domain.Task from a TaskDTO with the given parameters.
func buildTask(
	name string, dto *TaskDTO, workingDir domain.InternedString, deps, depsSerial []string,
) (*domain.Task, error) {
	task := &domain.Task{
		Name:           domain.NewInternedString(name),
		Command:        dto.Cmd,
		Inputs:         canonicalizeStrings(dto.Input),
		Outputs:        canonicalizeStrings(dto.Target),
		Dependencies:   domain.NewInternedStrings(deps),
		DepsSerial:     domain.NewInternedStrings(depsSerial),
		Environment:    dto.Environment,
		WorkingDir:     workingDir,
		Condition:      dto.Condition,
		Tags:           dto.Tags,
		AllowFailure:   dto.AllowFailure,
		Cache:          dto.Cache,
		Timeout:        time.Duration(dto.TimeoutMS) * time.Millisecond,
		MaxConcurrent:  dto.MaxConcurrent,
		MatrixVariants: domain.NewInternedStrings(dto.matrixVariants),
	}

	if dto.Retry != nil {
		task.Retry = retryPolicyFromDTO(dto.Retry)
	}
	if dto.Limits != nil {
		task.Limits = domain.ResourceLimits{MaxCPU: dto.Limits.MaxCPU, MaxMemory: dto.Limits.MaxMemory}
	}

	toolchain, err := parseToolchain(dto.Toolchain)
	if err != nil {
		return nil, zerr.With(err, "task", name)
	}
	task.Toolchain = toolchain

	return task, nil
}

func parseToolchain(specs []string) ([]domain.ToolchainRequirement, error) {
	reqs := make([]domain.ToolchainRequirement, 0, len(specs))
	for _, spec := range specs {
		name, version, ok := strings.Cut(spec, "@")
		if !ok {
			return nil, zerr.With(domain.ErrInvalidToolSpec, "spec", spec)
		}
		reqs = append(reqs, domain.ToolchainRequirement{Name: name, Version: version})
	}
	return reqs, nil
}

// resolveTaskWorkingDir resolves the working directory for a task.
func resolveTaskWorkingDir(baseDir, configuredWorkingDir string) domain.InternedString {
	if configuredWorkingDir == "" {
		return domain.NewInternedString(baseDir)
	}

	if filepath.IsAbs(configuredWorkingDir) {
		return domain.NewInternedString(filepath.Clean(configuredWorkingDir))
	}

	return domain.NewInternedString(filepath.Clean(filepath.Join(baseDir, configuredWorkingDir)))
}

func sortedKeys(m map[string]*TaskDTO) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
