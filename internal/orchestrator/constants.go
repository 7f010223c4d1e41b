package orchestrator

import "time"

// DefaultWorkflowTimeout bounds a whole tagging run when the caller sets no timeout
const DefaultWorkflowTimeout = 10 * time.Minute
