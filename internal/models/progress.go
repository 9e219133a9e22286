package model

// Progress is the canonical three-state task progress enum. The backend
// has emitted all three values at one time or another, so all three are
// accepted on the wire; completion is derived from Completed only.
type Progress string

const (
	ProgressNotStarted  Progress = "Not Started"
	ProgressUncompleted Progress = "Uncompleted"
	ProgressCompleted   Progress = "Completed"
)

func (p Progress) Valid() bool {
	switch p {
	case ProgressNotStarted, ProgressUncompleted, ProgressCompleted:
		return true
	}
	return false
}

func (p Progress) IsCompleted() bool {
	return p == ProgressCompleted
}

// Toggled returns the progress a completion toggle transitions to.
// Both incomplete states toggle to Completed.
func (p Progress) Toggled() Progress {
	if p == ProgressCompleted {
		return ProgressUncompleted
	}
	return ProgressCompleted
}
