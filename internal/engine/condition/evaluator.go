package condition

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/zr/internal/core/domain"
)

// VCSChangeChecker reports which paths differ from the repository's HEAD.
// internal/adapters/vcs.GitChecker is the concrete go-git-backed
// implementation; tests may supply a stub.
type VCSChangeChecker interface {
	ChangedFiles(root string) ([]string, error)
}

// Evaluator implements ports.ConditionEvaluator. Helper behavior is split
// into fields so tests can substitute file/vcs/shell access without a
// filesystem or subprocess.
type Evaluator struct {
	Root     string
	Platform string
	Arch     string
	VCS      VCSChangeChecker

	// ShellTimeout bounds how long a shell() helper call may run.
	ShellTimeout time.Duration
}

// NewEvaluator returns an Evaluator wired to the real OS, process
// environment, and the given VCS change checker.
func NewEvaluator(root string, vcs VCSChangeChecker) *Evaluator {
	return &Evaluator{
		Root:         root,
		Platform:     runtime.GOOS,
		Arch:         normalizeArch(runtime.GOARCH),
		VCS:          vcs,
		ShellTimeout: 30 * time.Second,
	}
}

func normalizeArch(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	default:
		return goarch
	}
}

// Evaluate parses and evaluates expr, failing open (returning true) on
// any parse or evaluation error.
func (e *Evaluator) Evaluate(expr string, env map[string]string, state *domain.RuntimeState) (bool, error) {
	ast, err := parse(expr)
	if err != nil {
		return true, domain.ErrConditionEvalFailed
	}

	ctx := &evalContext{env: env, state: state, e: e}
	result, err := ctx.eval(ast)
	if err != nil {
		return true, domain.ErrConditionEvalFailed
	}
	return result, nil
}

type evalContext struct {
	env   map[string]string
	state *domain.RuntimeState
	e     *Evaluator
}

func (c *evalContext) eval(n node) (bool, error) {
	switch v := n.(type) {
	case orNode:
		left, err := c.eval(v.left)
		if err != nil {
			return false, err
		}
		if left {
			return true, nil
		}
		return c.eval(v.right)
	case andNode:
		left, err := c.eval(v.left)
		if err != nil {
			return false, err
		}
		if !left {
			return false, nil
		}
		return c.eval(v.right)
	case boolLit:
		return v.value, nil
	case envRef:
		return c.evalEnvRef(v)
	case runtimeRef:
		return c.evalRuntimeRef(v)
	case funcCall:
		return c.evalFuncCall(v)
	default:
		return false, errUnknownNode
	}
}

var errUnknownNode = &nodeError{"unknown condition node"}

type nodeError struct{ msg string }

func (e *nodeError) Error() string { return e.msg }

func (c *evalContext) lookupEnv(name string) (string, bool) {
	if c.env != nil {
		if v, ok := c.env[name]; ok {
			return v, true
		}
	}
	return os.LookupEnv(name)
}

func (c *evalContext) evalEnvRef(r envRef) (bool, error) {
	val, present := c.lookupEnv(r.name)
	if !r.hasOp {
		return present && val != "", nil
	}
	switch r.op {
	case "==":
		return val == r.operand, nil
	case "!=":
		return val != r.operand, nil
	default:
		return false, errUnknownNode
	}
}

func (c *evalContext) evalRuntimeRef(r runtimeRef) (bool, error) {
	switch r.kind {
	case "stage":
		if c.state == nil {
			return false, nil
		}
		s, ok := c.state.Stage(r.name)
		return ok && s.Success, nil
	case "task":
		if c.state == nil {
			return false, nil
		}
		t, ok := c.state.Task(r.name)
		if !ok {
			return false, nil
		}
		if !r.hasOp {
			return t.Duration > 0, nil
		}
		ms := float64(t.Duration) / float64(time.Millisecond)
		return compare(ms, r.op, r.operand), nil
	default:
		return false, errUnknownNode
	}
}

func compare(a float64, op string, b float64) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	case "==":
		return a == b
	case "!=":
		return a != b
	default:
		return false
	}
}

func (c *evalContext) evalFuncCall(f funcCall) (bool, error) {
	e := c.e
	switch f.name {
	case "platform":
		return matchesEquality(e.Platform, f.args), nil
	case "arch":
		return matchesEquality(e.Arch, f.args), nil
	case "file.exists":
		if len(f.args) != 1 {
			return false, errUnknownNode
		}
		_, err := os.Stat(resolvePath(e.Root, f.args[0]))
		return err == nil, nil
	case "file.newer":
		if len(f.args) != 2 {
			return false, errUnknownNode
		}
		return fileNewer(resolvePath(e.Root, f.args[0]), resolvePath(e.Root, f.args[1])), nil
	case "file.hash":
		if len(f.args) != 1 {
			return false, errUnknownNode
		}
		_, err := os.Stat(resolvePath(e.Root, f.args[0]))
		return err == nil, nil
	case "file.changed":
		if len(f.args) != 1 || e.VCS == nil {
			return false, nil
		}
		changed, err := e.VCS.ChangedFiles(e.Root)
		if err != nil {
			return false, nil
		}
		for _, c := range changed {
			if ok, _ := doublestar.Match(f.args[0], c); ok {
				return true, nil
			}
		}
		return false, nil
	case "shell":
		if len(f.args) != 1 {
			return false, errUnknownNode
		}
		return runShell(e.Root, f.args[0], e.ShellTimeout), nil
	case "semver.gte":
		if len(f.args) != 2 {
			return false, errUnknownNode
		}
		return semverGTE(f.args[0], f.args[1]), nil
	default:
		return false, errUnknownNode
	}
}

func matchesEquality(actual string, args []string) bool {
	if len(args) != 2 {
		return false
	}
	op, want := args[0], args[1]
	switch op {
	case "==":
		return actual == want
	case "!=":
		return actual != want
	default:
		return false
	}
}

func resolvePath(root, path string) string {
	if root == "" {
		return path
	}
	if len(path) > 0 && (path[0] == '/' || path[0] == '.') {
		return path
	}
	return root + string(os.PathSeparator) + path
}

func fileNewer(target, source string) bool {
	ti, err := os.Stat(target)
	if err != nil {
		return false
	}
	si, err := os.Stat(source)
	if err != nil {
		return false
	}
	return ti.ModTime().After(si.ModTime())
}

func runShell(root, cmd string, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	shellPath, shellFlag := "/bin/sh", "-c"
	if runtime.GOOS == "windows" {
		shellPath, shellFlag = "cmd", "/C"
	}

	c := exec.CommandContext(ctx, shellPath, shellFlag, cmd)
	if root != "" {
		c.Dir = root
	}
	return c.Run() == nil
}

func semverGTE(a, b string) bool {
	va, err := semver.NewVersion(a)
	if err != nil {
		return false
	}
	vb, err := semver.NewVersion(b)
	if err != nil {
		return false
	}
	return va.Compare(vb) >= 0
}
