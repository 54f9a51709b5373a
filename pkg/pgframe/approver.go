package pgframe

import "context"

// Approver handles confirmation of destructive operations.
// The replace policy drops the destination table, so the CLI asks first.
//
// Implementations:
//   - ForcedApprover: Shows countdown and automatically approves
//   - InteractiveApprover: Prompts user to type the table name for confirmation
type Approver interface {
	// RequestApproval prompts for confirmation before dropping and recreating a table.
	// tableName is the qualified name as shown to the user.
	RequestApproval(ctx context.Context, tableName string) (bool, error)
}
