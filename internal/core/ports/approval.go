package ports

import "context"

// ApprovalPrompt is the external collaborator a workflow stage calls
// into when it declares an interactive approval gate. The CLI/TUI layer
// supplies the concrete implementation; the workflow engine only depends
// on this interface.
//
//go:generate go run go.uber.org/mock/mockgen -source=approval.go -destination=mocks/mock_approval.go -package=mocks
type ApprovalPrompt interface {
	// Confirm blocks until the user approves or rejects the named stage.
	Confirm(ctx context.Context, stageName string) (bool, error)
}
