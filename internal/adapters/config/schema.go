package config

// Zrfile represents the structure of the zr.yaml configuration file.
type Zrfile struct {
	Version   string                  `yaml:"version"`
	Project   string                  `yaml:"project"`
	Root      string                  `yaml:"root"`
	Tasks     map[string]*TaskDTO     `yaml:"tasks"`
	Templates map[string]*TemplateDTO `yaml:"templates"`
	Profiles  map[string]*ProfileDTO  `yaml:"profiles"`
	Workflows map[string]*WorkflowDTO `yaml:"workflows"`
}

// Workfile represents the structure of the zr.work.yaml configuration file.
type Workfile struct {
	Version  string   `yaml:"version"`
	Root     string   `yaml:"root"`
	Projects []string `yaml:"projects"`
}

// TaskDTO represents a task definition in the configuration.
type TaskDTO struct {
	Input           []string            `yaml:"input"`
	Cmd             []string            `yaml:"cmd"`
	Target          []string            `yaml:"target"`
	DependsOn       []string            `yaml:"dependsOn"`
	DependsOnSerial []string            `yaml:"dependsOnSerial"`
	Environment     map[string]string   `yaml:"environment"`
	WorkingDir      string              `yaml:"workingDir"`
	Template        string              `yaml:"template"`
	Params          map[string]string   `yaml:"params"`
	Condition       string              `yaml:"condition"`
	Tags            []string            `yaml:"tags"`
	AllowFailure    bool                `yaml:"allowFailure"`
	Cache           bool                `yaml:"cache"`
	TimeoutMS       int64               `yaml:"timeoutMs"       validate:"gte=0"`
	MaxConcurrent   int                 `yaml:"maxConcurrent"   validate:"gte=0"`
	Retry           *RetryDTO           `yaml:"retry"`
	Limits          *LimitsDTO          `yaml:"limits"`
	Toolchain       []string            `yaml:"toolchain"`
	Matrix          map[string][]string `yaml:"matrix"`

	// matrixVariants is populated by expandMatrices on a synthesized parent
	// task DTO; it never appears in YAML.
	matrixVariants []string
}

// clone returns a deep-enough copy of the DTO for template/matrix expansion,
// so mutating the copy never affects the shared template or source task.
func (d TaskDTO) clone() *TaskDTO {
	c := d
	c.Input = append([]string(nil), d.Input...)
	c.Cmd = append([]string(nil), d.Cmd...)
	c.Target = append([]string(nil), d.Target...)
	c.DependsOn = append([]string(nil), d.DependsOn...)
	c.DependsOnSerial = append([]string(nil), d.DependsOnSerial...)
	c.Tags = append([]string(nil), d.Tags...)
	c.Toolchain = append([]string(nil), d.Toolchain...)
	c.Environment = make(map[string]string, len(d.Environment))
	for k, v := range d.Environment {
		c.Environment[k] = v
	}
	return &c
}

// RetryDTO configures retry behavior for a task.
type RetryDTO struct {
	Max     int    `yaml:"max"     validate:"gte=0"`
	DelayMS int64  `yaml:"delayMs" validate:"gte=0"`
	Backoff string `yaml:"backoff" validate:"omitempty,oneof=linear exponential"`
}

// LimitsDTO caps resource usage for a task.
type LimitsDTO struct {
	MaxCPU    float64 `yaml:"maxCpu"    validate:"gte=0"`
	MaxMemory int64   `yaml:"maxMemory" validate:"gte=0"`
}

// TemplateDTO is a parameterized task blueprint. Params named here may be
// referenced as ${param} in any string field of Body; a task referencing
// this template via its own `template`/`params` fields gets Body expanded
// with those substitutions applied.
type TemplateDTO struct {
	Params []string `yaml:"params"`
	Body   TaskDTO  `yaml:"body"`
}

// ProfileDTO overlays environment and per-task overrides at selection time.
type ProfileDTO struct {
	Environment map[string]string          `yaml:"environment"`
	Tasks       map[string]TaskOverrideDTO `yaml:"tasks"`
}

// TaskOverrideDTO is the subset of task fields a profile may replace.
type TaskOverrideDTO struct {
	Environment map[string]string `yaml:"environment"`
	TimeoutMS   *int64            `yaml:"timeoutMs"`
	Retry       *RetryDTO         `yaml:"retry"`
}

// WorkflowDTO sequences named stages.
type WorkflowDTO struct {
	Stages []StageDTO `yaml:"stages"`
}

// StageDTO is a single step of a workflow.
type StageDTO struct {
	Name      string   `yaml:"name"      validate:"required"`
	Targets   []string `yaml:"targets"   validate:"required,min=1"`
	Parallel  bool     `yaml:"parallel"`
	Condition string   `yaml:"condition"`
	FailFast  bool     `yaml:"failFast"`
	OnFailure string   `yaml:"onFailure"`
	Approval  bool     `yaml:"approval"`
}
