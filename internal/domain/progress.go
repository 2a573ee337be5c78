package domain

// StepStatus represents the state of a single generation step.
type StepStatus string

const (
	StatusPending    StepStatus = "pending"
	StatusInProgress StepStatus = "in-progress"
	StatusCompleted  StepStatus = "completed"
	StatusError      StepStatus = "error"
)

// Step identifiers emitted by the generator, in execution order.
const (
	StepClonePlugin  = "clone-plugin"
	StepInitGit      = "init-git"
	StepAddSubmodule = "add-submodule"
	StepConfigure    = "configure"
	StepInstallGUI   = "install-gui"
	StepIDEConfig    = "ide-config"
	// StepError is the step name of the terminal update emitted on failure.
	StepError = "error"
)

// ProgressUpdate describes a status transition of one generation step.
// Updates are emitted to an Observer and never stored by the generator.
type ProgressUpdate struct {
	Step    string     `json:"step"`
	Status  StepStatus `json:"status"`
	Message string     `json:"message"`
	Error   string     `json:"error,omitempty"`
}

// Observer receives progress updates during generation.
type Observer func(ProgressUpdate)
