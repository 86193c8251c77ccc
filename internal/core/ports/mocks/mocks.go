// Package mocks provides gomock-style test doubles for the core/ports
// interfaces, hand-authored in the shape go.uber.org/mock/mockgen would
// generate from the go:generate directives on each port file.
package mocks

import (
	"context"
	"io"
	"reflect"

	"go.uber.org/mock/gomock"

	"go.trai.ch/zr/internal/core/domain"
	"go.trai.ch/zr/internal/core/ports"
)

// MockLogger mocks ports.Logger.
type MockLogger struct {
	ctrl     *gomock.Controller
	recorder *MockLoggerMockRecorder
}

// MockLoggerMockRecorder records expectations for MockLogger.
type MockLoggerMockRecorder struct {
	mock *MockLogger
}

// NewMockLogger constructs a MockLogger.
func NewMockLogger(ctrl *gomock.Controller) *MockLogger {
	mock := &MockLogger{ctrl: ctrl}
	mock.recorder = &MockLoggerMockRecorder{mock}
	return mock
}

// EXPECT returns the recorder used to set expectations.
func (m *MockLogger) EXPECT() *MockLoggerMockRecorder { return m.recorder }

func (m *MockLogger) Info(msg string) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Info", msg)
}

func (mr *MockLoggerMockRecorder) Info(msg interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Info", reflect.TypeOf((*MockLogger)(nil).Info), msg)
}

func (m *MockLogger) Warn(msg string) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Warn", msg)
}

func (mr *MockLoggerMockRecorder) Warn(msg interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Warn", reflect.TypeOf((*MockLogger)(nil).Warn), msg)
}

func (m *MockLogger) Error(err error) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Error", err)
}

func (mr *MockLoggerMockRecorder) Error(err interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Error", reflect.TypeOf((*MockLogger)(nil).Error), err)
}

// MockExecutor mocks ports.Executor.
type MockExecutor struct {
	ctrl     *gomock.Controller
	recorder *MockExecutorMockRecorder
}

// MockExecutorMockRecorder records expectations for MockExecutor.
type MockExecutorMockRecorder struct {
	mock *MockExecutor
}

// NewMockExecutor constructs a MockExecutor.
func NewMockExecutor(ctrl *gomock.Controller) *MockExecutor {
	mock := &MockExecutor{ctrl: ctrl}
	mock.recorder = &MockExecutorMockRecorder{mock}
	return mock
}

// EXPECT returns the recorder used to set expectations.
func (m *MockExecutor) EXPECT() *MockExecutorMockRecorder { return m.recorder }

func (m *MockExecutor) Execute(ctx context.Context, task *domain.Task, env []string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Execute", ctx, task, env)
	err, _ := ret[0].(error)
	return err
}

func (mr *MockExecutorMockRecorder) Execute(ctx, task, env interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(
		mr.mock, "Execute", reflect.TypeOf((*MockExecutor)(nil).Execute), ctx, task, env,
	)
}

// MockHasher mocks ports.Hasher.
type MockHasher struct {
	ctrl     *gomock.Controller
	recorder *MockHasherMockRecorder
}

// MockHasherMockRecorder records expectations for MockHasher.
type MockHasherMockRecorder struct {
	mock *MockHasher
}

// NewMockHasher constructs a MockHasher.
func NewMockHasher(ctrl *gomock.Controller) *MockHasher {
	mock := &MockHasher{ctrl: ctrl}
	mock.recorder = &MockHasherMockRecorder{mock}
	return mock
}

// EXPECT returns the recorder used to set expectations.
func (m *MockHasher) EXPECT() *MockHasherMockRecorder { return m.recorder }

func (m *MockHasher) Fingerprint(task *domain.Task, env map[string]string, root string) (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Fingerprint", task, env, root)
	s, _ := ret[0].(string)
	err, _ := ret[1].(error)
	return s, err
}

func (mr *MockHasherMockRecorder) Fingerprint(task, env, root interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(
		mr.mock, "Fingerprint", reflect.TypeOf((*MockHasher)(nil).Fingerprint), task, env, root,
	)
}

func (m *MockHasher) ComputeFileHash(path string) (uint64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ComputeFileHash", path)
	h, _ := ret[0].(uint64)
	err, _ := ret[1].(error)
	return h, err
}

func (mr *MockHasherMockRecorder) ComputeFileHash(path interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(
		mr.mock, "ComputeFileHash", reflect.TypeOf((*MockHasher)(nil).ComputeFileHash), path,
	)
}

func (m *MockHasher) ComputeOutputHash(outputs []string, root string) (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ComputeOutputHash", outputs, root)
	s, _ := ret[0].(string)
	err, _ := ret[1].(error)
	return s, err
}

func (mr *MockHasherMockRecorder) ComputeOutputHash(outputs, root interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(
		mr.mock, "ComputeOutputHash", reflect.TypeOf((*MockHasher)(nil).ComputeOutputHash), outputs, root,
	)
}

// MockInputResolver mocks ports.InputResolver.
type MockInputResolver struct {
	ctrl     *gomock.Controller
	recorder *MockInputResolverMockRecorder
}

// MockInputResolverMockRecorder records expectations for MockInputResolver.
type MockInputResolverMockRecorder struct {
	mock *MockInputResolver
}

// NewMockInputResolver constructs a MockInputResolver.
func NewMockInputResolver(ctrl *gomock.Controller) *MockInputResolver {
	mock := &MockInputResolver{ctrl: ctrl}
	mock.recorder = &MockInputResolverMockRecorder{mock}
	return mock
}

// EXPECT returns the recorder used to set expectations.
func (m *MockInputResolver) EXPECT() *MockInputResolverMockRecorder { return m.recorder }

func (m *MockInputResolver) ResolveInputs(inputs []string, root string) ([]string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ResolveInputs", inputs, root)
	paths, _ := ret[0].([]string)
	err, _ := ret[1].(error)
	return paths, err
}

func (mr *MockInputResolverMockRecorder) ResolveInputs(inputs, root interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(
		mr.mock, "ResolveInputs", reflect.TypeOf((*MockInputResolver)(nil).ResolveInputs), inputs, root,
	)
}

// MockEnvironmentFactory mocks ports.EnvironmentFactory.
type MockEnvironmentFactory struct {
	ctrl     *gomock.Controller
	recorder *MockEnvironmentFactoryMockRecorder
}

// MockEnvironmentFactoryMockRecorder records expectations for MockEnvironmentFactory.
type MockEnvironmentFactoryMockRecorder struct {
	mock *MockEnvironmentFactory
}

// NewMockEnvironmentFactory constructs a MockEnvironmentFactory.
func NewMockEnvironmentFactory(ctrl *gomock.Controller) *MockEnvironmentFactory {
	mock := &MockEnvironmentFactory{ctrl: ctrl}
	mock.recorder = &MockEnvironmentFactoryMockRecorder{mock}
	return mock
}

// EXPECT returns the recorder used to set expectations.
func (m *MockEnvironmentFactory) EXPECT() *MockEnvironmentFactoryMockRecorder { return m.recorder }

func (m *MockEnvironmentFactory) GetEnvironment(ctx context.Context, tools map[string]string) ([]string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetEnvironment", ctx, tools)
	env, _ := ret[0].([]string)
	err, _ := ret[1].(error)
	return env, err
}

func (mr *MockEnvironmentFactoryMockRecorder) GetEnvironment(ctx, tools interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(
		mr.mock, "GetEnvironment", reflect.TypeOf((*MockEnvironmentFactory)(nil).GetEnvironment), ctx, tools,
	)
}

// MockConfigLoader mocks ports.ConfigLoader.
type MockConfigLoader struct {
	ctrl     *gomock.Controller
	recorder *MockConfigLoaderMockRecorder
}

// MockConfigLoaderMockRecorder records expectations for MockConfigLoader.
type MockConfigLoaderMockRecorder struct {
	mock *MockConfigLoader
}

// NewMockConfigLoader constructs a MockConfigLoader.
func NewMockConfigLoader(ctrl *gomock.Controller) *MockConfigLoader {
	mock := &MockConfigLoader{ctrl: ctrl}
	mock.recorder = &MockConfigLoaderMockRecorder{mock}
	return mock
}

// EXPECT returns the recorder used to set expectations.
func (m *MockConfigLoader) EXPECT() *MockConfigLoaderMockRecorder { return m.recorder }

func (m *MockConfigLoader) Load(cwd string) (*domain.Graph, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Load", cwd)
	g, _ := ret[0].(*domain.Graph)
	err, _ := ret[1].(error)
	return g, err
}

func (mr *MockConfigLoaderMockRecorder) Load(cwd interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(
		mr.mock, "Load", reflect.TypeOf((*MockConfigLoader)(nil).Load), cwd,
	)
}

// MockConditionEvaluator mocks ports.ConditionEvaluator.
type MockConditionEvaluator struct {
	ctrl     *gomock.Controller
	recorder *MockConditionEvaluatorMockRecorder
}

// MockConditionEvaluatorMockRecorder records expectations for MockConditionEvaluator.
type MockConditionEvaluatorMockRecorder struct {
	mock *MockConditionEvaluator
}

// NewMockConditionEvaluator constructs a MockConditionEvaluator.
func NewMockConditionEvaluator(ctrl *gomock.Controller) *MockConditionEvaluator {
	mock := &MockConditionEvaluator{ctrl: ctrl}
	mock.recorder = &MockConditionEvaluatorMockRecorder{mock}
	return mock
}

// EXPECT returns the recorder used to set expectations.
func (m *MockConditionEvaluator) EXPECT() *MockConditionEvaluatorMockRecorder { return m.recorder }

func (m *MockConditionEvaluator) Evaluate(
	expr string, env map[string]string, state *domain.RuntimeState,
) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Evaluate", expr, env, state)
	ok, _ := ret[0].(bool)
	err, _ := ret[1].(error)
	return ok, err
}

func (mr *MockConditionEvaluatorMockRecorder) Evaluate(expr, env, state interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(
		mr.mock, "Evaluate", reflect.TypeOf((*MockConditionEvaluator)(nil).Evaluate), expr, env, state,
	)
}

// MockCacheStore mocks ports.CacheStore.
type MockCacheStore struct {
	ctrl     *gomock.Controller
	recorder *MockCacheStoreMockRecorder
}

// MockCacheStoreMockRecorder records expectations for MockCacheStore.
type MockCacheStoreMockRecorder struct {
	mock *MockCacheStore
}

// NewMockCacheStore constructs a MockCacheStore.
func NewMockCacheStore(ctrl *gomock.Controller) *MockCacheStore {
	mock := &MockCacheStore{ctrl: ctrl}
	mock.recorder = &MockCacheStoreMockRecorder{mock}
	return mock
}

// EXPECT returns the recorder used to set expectations.
func (m *MockCacheStore) EXPECT() *MockCacheStoreMockRecorder { return m.recorder }

func (m *MockCacheStore) Get(taskName string) (*domain.CacheEntry, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", taskName)
	entry, _ := ret[0].(*domain.CacheEntry)
	err, _ := ret[1].(error)
	return entry, err
}

func (mr *MockCacheStoreMockRecorder) Get(taskName interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(
		mr.mock, "Get", reflect.TypeOf((*MockCacheStore)(nil).Get), taskName,
	)
}

func (m *MockCacheStore) Put(info domain.CacheEntry) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Put", info)
	err, _ := ret[0].(error)
	return err
}

func (mr *MockCacheStoreMockRecorder) Put(info interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(
		mr.mock, "Put", reflect.TypeOf((*MockCacheStore)(nil).Put), info,
	)
}

// MockVerifier mocks ports.Verifier.
type MockVerifier struct {
	ctrl     *gomock.Controller
	recorder *MockVerifierMockRecorder
}

// MockVerifierMockRecorder records expectations for MockVerifier.
type MockVerifierMockRecorder struct {
	mock *MockVerifier
}

// NewMockVerifier constructs a MockVerifier.
func NewMockVerifier(ctrl *gomock.Controller) *MockVerifier {
	mock := &MockVerifier{ctrl: ctrl}
	mock.recorder = &MockVerifierMockRecorder{mock}
	return mock
}

// EXPECT returns the recorder used to set expectations.
func (m *MockVerifier) EXPECT() *MockVerifierMockRecorder { return m.recorder }

func (m *MockVerifier) VerifyOutputs(root string, outputs []string) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "VerifyOutputs", root, outputs)
	ok, _ := ret[0].(bool)
	err, _ := ret[1].(error)
	return ok, err
}

func (mr *MockVerifierMockRecorder) VerifyOutputs(root, outputs interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(
		mr.mock, "VerifyOutputs", reflect.TypeOf((*MockVerifier)(nil).VerifyOutputs), root, outputs,
	)
}

// MockApprovalPrompt mocks ports.ApprovalPrompt.
type MockApprovalPrompt struct {
	ctrl     *gomock.Controller
	recorder *MockApprovalPromptMockRecorder
}

// MockApprovalPromptMockRecorder records expectations for MockApprovalPrompt.
type MockApprovalPromptMockRecorder struct {
	mock *MockApprovalPrompt
}

// NewMockApprovalPrompt constructs a MockApprovalPrompt.
func NewMockApprovalPrompt(ctrl *gomock.Controller) *MockApprovalPrompt {
	mock := &MockApprovalPrompt{ctrl: ctrl}
	mock.recorder = &MockApprovalPromptMockRecorder{mock}
	return mock
}

// EXPECT returns the recorder used to set expectations.
func (m *MockApprovalPrompt) EXPECT() *MockApprovalPromptMockRecorder { return m.recorder }

func (m *MockApprovalPrompt) Confirm(ctx context.Context, stageName string) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Confirm", ctx, stageName)
	ok, _ := ret[0].(bool)
	err, _ := ret[1].(error)
	return ok, err
}

func (mr *MockApprovalPromptMockRecorder) Confirm(ctx, stageName interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(
		mr.mock, "Confirm", reflect.TypeOf((*MockApprovalPrompt)(nil).Confirm), ctx, stageName,
	)
}

// MockVertex mocks ports.Vertex.
type MockVertex struct {
	ctrl     *gomock.Controller
	recorder *MockVertexMockRecorder
}

// MockVertexMockRecorder records expectations for MockVertex.
type MockVertexMockRecorder struct {
	mock *MockVertex
}

// NewMockVertex constructs a MockVertex.
func NewMockVertex(ctrl *gomock.Controller) *MockVertex {
	mock := &MockVertex{ctrl: ctrl}
	mock.recorder = &MockVertexMockRecorder{mock}
	return mock
}

// EXPECT returns the recorder used to set expectations.
func (m *MockVertex) EXPECT() *MockVertexMockRecorder { return m.recorder }

func (m *MockVertex) Stdout() io.Writer {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Stdout")
	w, _ := ret[0].(io.Writer)
	return w
}

func (mr *MockVertexMockRecorder) Stdout() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Stdout", reflect.TypeOf((*MockVertex)(nil).Stdout))
}

func (m *MockVertex) Stderr() io.Writer {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Stderr")
	w, _ := ret[0].(io.Writer)
	return w
}

func (mr *MockVertexMockRecorder) Stderr() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Stderr", reflect.TypeOf((*MockVertex)(nil).Stderr))
}

func (m *MockVertex) Log(level domain.LogLevel, msg string) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Log", level, msg)
}

func (mr *MockVertexMockRecorder) Log(level, msg interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Log", reflect.TypeOf((*MockVertex)(nil).Log), level, msg)
}

func (m *MockVertex) Complete(err error) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Complete", err)
}

func (mr *MockVertexMockRecorder) Complete(err interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Complete", reflect.TypeOf((*MockVertex)(nil).Complete), err)
}

func (m *MockVertex) Cached() {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Cached")
}

func (mr *MockVertexMockRecorder) Cached() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Cached", reflect.TypeOf((*MockVertex)(nil).Cached))
}

// MockTelemetry mocks ports.Telemetry.
type MockTelemetry struct {
	ctrl     *gomock.Controller
	recorder *MockTelemetryMockRecorder
}

// MockTelemetryMockRecorder records expectations for MockTelemetry.
type MockTelemetryMockRecorder struct {
	mock *MockTelemetry
}

// NewMockTelemetry constructs a MockTelemetry.
func NewMockTelemetry(ctrl *gomock.Controller) *MockTelemetry {
	mock := &MockTelemetry{ctrl: ctrl}
	mock.recorder = &MockTelemetryMockRecorder{mock}
	return mock
}

// EXPECT returns the recorder used to set expectations.
func (m *MockTelemetry) EXPECT() *MockTelemetryMockRecorder { return m.recorder }

func (m *MockTelemetry) Record(
	ctx context.Context, name string, opts ...ports.VertexOption,
) (context.Context, ports.Vertex) {
	m.ctrl.T.Helper()
	varArgs := []interface{}{ctx, name}
	for _, o := range opts {
		varArgs = append(varArgs, o)
	}
	ret := m.ctrl.Call(m, "Record", varArgs...)
	retCtx, _ := ret[0].(context.Context)
	v, _ := ret[1].(ports.Vertex)
	return retCtx, v
}

func (mr *MockTelemetryMockRecorder) Record(ctx, name interface{}, opts ...interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	varArgs := append([]interface{}{ctx, name}, opts...)
	return mr.mock.ctrl.RecordCallWithMethodType(
		mr.mock, "Record", reflect.TypeOf((*MockTelemetry)(nil).Record), varArgs...,
	)
}

func (m *MockTelemetry) Close() error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Close")
	err, _ := ret[0].(error)
	return err
}

func (mr *MockTelemetryMockRecorder) Close() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Close", reflect.TypeOf((*MockTelemetry)(nil).Close))
}
