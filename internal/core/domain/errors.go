package domain

import "go.trai.ch/zerr"

var (
	// ErrTaskAlreadyExists is returned when attempting to add a task with a name that already exists.
	ErrTaskAlreadyExists = zerr.New("task already exists")

	// ErrMissingDependency is returned when a task references a dependency that doesn't exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrMissingProjectName is returned in workspace mode when a project is missing a name.
	ErrMissingProjectName = zerr.New("missing project name")

	// ErrInvalidProjectName is returned when a project name is invalid.
	ErrInvalidProjectName = zerr.New("project name can only contain alphanumeric characters, hyphens and underscores")

	// ErrDuplicateProjectName is returned when multiple projects share the same name in a workspace.
	ErrDuplicateProjectName = zerr.New("duplicate project name")

	// ErrCycleDetected is returned when a cycle is detected in the task dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTaskNotFound is returned when a requested task is not found in the graph.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrNoTargetsSpecified is returned when no targets are specified for the run command.
	ErrNoTargetsSpecified = zerr.New("no targets specified")

	// ErrOutputPathOutsideRoot is returned when an output path is outside the project root.
	ErrOutputPathOutsideRoot = zerr.New("output path is outside project root")

	// ErrInputNotFound is returned when a declared input file or directory is not found.
	ErrInputNotFound = zerr.New("input not found")

	// ErrReservedTaskName is returned when a task uses a reserved name (e.g., "all").
	ErrReservedTaskName = zerr.New("task name 'all' is reserved")

	// ErrInvalidTaskName is returned when a task name contains invalid characters.
	ErrInvalidTaskName = zerr.New("invalid task name")

	// ErrStoreCreateFailed is returned when the cache store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create cache store directory")

	// ErrStoreReadFailed is returned when the cache entry cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read cache entry")

	// ErrStoreUnmarshalFailed is returned when the cache entry cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal cache entry")

	// ErrStoreMarshalFailed is returned when the cache entry cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal cache entry")

	// ErrStoreWriteFailed is returned when the cache entry cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write cache entry")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when the config file cannot be found.
	ErrConfigNotFound = zerr.New("could not find zr.yaml or zr.work.yaml")

	// ErrConfigValidationFailed is returned when a parsed config document fails struct validation.
	ErrConfigValidationFailed = zerr.New("config validation failed")

	// ErrBuildExecutionFailed is returned when the build execution fails.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrTaskExecutionFailed is returned when a task execution fails.
	ErrTaskExecutionFailed = zerr.New("task execution failed")

	// ErrInputResolutionFailed is returned when input resolution fails.
	ErrInputResolutionFailed = zerr.New("failed to resolve inputs")

	// ErrInputHashComputationFailed is returned when fingerprint computation fails.
	ErrInputHashComputationFailed = zerr.New("failed to compute task fingerprint")

	// ErrOutputHashComputationFailed is returned when output hash computation fails.
	ErrOutputHashComputationFailed = zerr.New("failed to compute output hash")

	// ErrBuildInfoUpdateFailed is returned when updating the cache store fails.
	ErrBuildInfoUpdateFailed = zerr.New("failed to update cache store")

	// ErrFailedToGetRoot is returned when the project root path cannot be determined.
	ErrFailedToGetRoot = zerr.New("failed to get absolute path of project root")

	// ErrFailedToGetOutputPath is returned when an output path cannot be determined.
	ErrFailedToGetOutputPath = zerr.New("failed to get absolute path of output")

	// ErrFailedToResolveRelativePath is returned when a relative path cannot be resolved.
	ErrFailedToResolveRelativePath = zerr.New("failed to resolve relative path")

	// ErrFailedToCleanOutput is returned when cleaning an output file fails.
	ErrFailedToCleanOutput = zerr.New("failed to clean output file")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrPathStatFailed is returned when stating a path fails.
	ErrPathStatFailed = zerr.New("failed to stat path")

	// ErrWriteHashFailed is returned when writing the hash to the digest fails.
	ErrWriteHashFailed = zerr.New("failed to write hash to digest")

	// ErrToolchainMissing is returned when a task's required tool cannot be found on PATH.
	ErrToolchainMissing = zerr.New("required tool not found on PATH")

	// ErrInvalidToolSpec is returned when a tool specification is missing the @ symbol.
	ErrInvalidToolSpec = zerr.New("invalid tool specification, expected format: name@version")

	// ErrConditionEvalFailed is returned by the condition evaluator together with a
	// fail-open true result when a condition cannot be parsed or evaluated.
	ErrConditionEvalFailed = zerr.New("condition evaluation failed")

	// ErrUnknownTarget is returned when a workflow references a stage target that
	// does not name a task or nested workflow in the graph.
	ErrUnknownTarget = zerr.New("unknown target")

	// ErrMatrixExpansionFailed is returned when matrix variant expansion fails.
	ErrMatrixExpansionFailed = zerr.New("failed to expand task matrix")

	// ErrTemplateExpansionFailed is returned when template expansion fails.
	ErrTemplateExpansionFailed = zerr.New("failed to expand task template")

	// ErrUnknownProfile is returned when a selected profile name is not defined.
	ErrUnknownProfile = zerr.New("unknown profile")

	// ErrAliasNotFound is returned when an alias lookup misses.
	ErrAliasNotFound = zerr.New("alias not found")

	// ErrWorkflowNotFound is returned when a requested workflow name is not
	// registered in the graph.
	ErrWorkflowNotFound = zerr.New("workflow not found")

	// ErrStageExecutionFailed is returned when a workflow stage's sub-run
	// ends with a non-allow_failure task failure.
	ErrStageExecutionFailed = zerr.New("workflow stage execution failed")

	// ErrApprovalRejected is returned when an interactive approval gate is
	// declined for a stage.
	ErrApprovalRejected = zerr.New("stage approval rejected")

	// ErrWorkflowExecutionFailed is returned when a workflow run stops due
	// to a failed stage under fail-fast workflow policy.
	ErrWorkflowExecutionFailed = zerr.New("workflow execution failed")
)
