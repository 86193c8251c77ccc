package workflow_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/zr/internal/core/domain"
	"go.trai.ch/zr/internal/core/ports/mocks"
	"go.trai.ch/zr/internal/engine/scheduler"
	"go.trai.ch/zr/internal/engine/workflow"
)

func newTestEngine(t *testing.T, execute func(ctx context.Context, task *domain.Task, env []string) error) (*workflow.Engine, *mocks.MockApprovalPrompt) {
	ctrl := gomock.NewController(t)

	mockExec := mocks.NewMockExecutor(ctrl)
	mockExec.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(execute).AnyTimes()
	mockStore := mocks.NewMockCacheStore(ctrl)
	mockHasher := mocks.NewMockHasher(ctrl)
	mockResolver := mocks.NewMockInputResolver(ctrl)
	mockEnvFactory := mocks.NewMockEnvironmentFactory(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()

	mockCondition := mocks.NewMockConditionEvaluator(ctrl)
	mockCondition.EXPECT().Evaluate("", gomock.Any(), gomock.Any()).Return(true, nil).AnyTimes()

	sched := scheduler.NewScheduler(mockExec, mockStore, mockHasher, mockResolver, mockCondition, mockEnvFactory, mockLogger)

	mockApproval := mocks.NewMockApprovalPrompt(ctrl)

	return workflow.NewEngine(sched, mockCondition, mockApproval, mockLogger), mockApproval
}

func buildGraph(t *testing.T, taskNames ...string) *domain.Graph {
	g := domain.NewGraph()
	g.SetRoot(".")
	for _, name := range taskNames {
		task := &domain.Task{Name: domain.NewInternedString(name), WorkingDir: domain.NewInternedString(".")}
		require.NoError(t, g.AddTask(task))
	}
	return g
}

func TestEngine_Run_UnknownWorkflow(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		engine, _ := newTestEngine(t, func(context.Context, *domain.Task, []string) error { return nil })
		g := buildGraph(t)

		err := engine.Run(context.Background(), g, "missing", workflow.RunOptions{})
		require.Error(t, err)
		require.True(t, strings.Contains(err.Error(), domain.ErrWorkflowNotFound.Error()))
	})
}

func TestEngine_Run_SequentialStagesSucceed(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		engine, _ := newTestEngine(t, func(context.Context, *domain.Task, []string) error { return nil })
		g := buildGraph(t, "build", "test")

		g.AddWorkflow(domain.Workflow{
			Name: domain.NewInternedString("ci"),
			Stages: []domain.Stage{
				{Name: domain.NewInternedString("build"), Targets: domain.NewInternedStrings([]string{"build"})},
				{Name: domain.NewInternedString("test"), Targets: domain.NewInternedStrings([]string{"test"})},
			},
		})

		err := engine.Run(context.Background(), g, "ci", workflow.RunOptions{})
		require.NoError(t, err)
	})
}

func TestEngine_Run_StageFailure_RunsOnFailureAndContinues(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		engine, _ := newTestEngine(t, func(_ context.Context, task *domain.Task, _ []string) error {
			if task.Name.String() == "build" {
				return errors.New("build broke")
			}
			return nil
		})
		g := buildGraph(t, "build", "notify", "test")

		g.AddWorkflow(domain.Workflow{
			Name: domain.NewInternedString("ci"),
			Stages: []domain.Stage{
				{
					Name:      domain.NewInternedString("build"),
					Targets:   domain.NewInternedStrings([]string{"build"}),
					OnFailure: domain.NewInternedString("notify"),
				},
				{Name: domain.NewInternedString("test"), Targets: domain.NewInternedStrings([]string{"test"})},
			},
		})

		err := engine.Run(context.Background(), g, "ci", workflow.RunOptions{FailFast: false})
		require.Error(t, err)
		require.True(t, strings.Contains(err.Error(), domain.ErrWorkflowExecutionFailed.Error()))
	})
}

func TestEngine_Run_StageFailure_StopsOnWorkflowFailFast(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ranTest := false
		engine, _ := newTestEngine(t, func(_ context.Context, task *domain.Task, _ []string) error {
			if task.Name.String() == "build" {
				return errors.New("build broke")
			}
			ranTest = true
			return nil
		})
		g := buildGraph(t, "build", "test")

		g.AddWorkflow(domain.Workflow{
			Name: domain.NewInternedString("ci"),
			Stages: []domain.Stage{
				{Name: domain.NewInternedString("build"), Targets: domain.NewInternedStrings([]string{"build"})},
				{Name: domain.NewInternedString("test"), Targets: domain.NewInternedStrings([]string{"test"})},
			},
		})

		err := engine.Run(context.Background(), g, "ci", workflow.RunOptions{FailFast: true})
		require.Error(t, err)
		require.True(t, strings.Contains(err.Error(), domain.ErrWorkflowExecutionFailed.Error()))
		require.False(t, ranTest, "stage after a fail-fast failure must not run")
	})
}

func TestEngine_Run_ApprovalRejected(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		engine, mockApproval := newTestEngine(t, func(context.Context, *domain.Task, []string) error { return nil })
		g := buildGraph(t, "deploy")

		g.AddWorkflow(domain.Workflow{
			Name: domain.NewInternedString("release"),
			Stages: []domain.Stage{
				{Name: domain.NewInternedString("deploy"), Targets: domain.NewInternedStrings([]string{"deploy"}), Approval: true},
			},
		})

		mockApproval.EXPECT().Confirm(gomock.Any(), "deploy").Return(false, nil)

		err := engine.Run(context.Background(), g, "release", workflow.RunOptions{})
		require.Error(t, err)
		require.True(t, strings.Contains(err.Error(), domain.ErrWorkflowExecutionFailed.Error()))
		require.True(t, strings.Contains(err.Error(), domain.ErrApprovalRejected.Error()))
	})
}
