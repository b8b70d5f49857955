package workflow

import (
	"fmt"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// State is the payload threaded through the processing graph. Nodes
// receive it by value and return the updated copy.
type State struct {
	// Identification
	RunID   string `json:"runId"`
	BatchID string `json:"batchId,omitempty"`

	// Input
	ImagePath string   `json:"imagePath"`
	Clinical  *float64 `json:"clinical,omitempty"`

	// Output locations
	ImageDir  string `json:"imageDir"`
	CSVPath   string `json:"csvPath"`
	Extension string `json:"extension"`

	// Tuning
	PerilesionKernel int `json:"perilesionKernel,omitempty"`

	// Results
	Predicted float64       `json:"predicted,omitempty"`
	StartTime time.Time     `json:"startTime"`
	Duration  time.Duration `json:"duration,omitempty"`
}

// NewState creates the state for one image run.
func NewState(imagePath string) State {
	return State{
		RunID:     generateRunID(),
		ImagePath: imagePath,
		Extension: ".png",
		StartTime: time.Now(),
	}
}

// WithClinical attaches a clinician-assigned PWAT score to the run.
func (s State) WithClinical(score float64) State {
	s.Clinical = &score
	return s
}

// WithOutput sets where artifacts and the ledger row land.
func (s State) WithOutput(imageDir, csvPath string) State {
	s.ImageDir = imageDir
	s.CSVPath = csvPath
	return s
}

func generateRunID() string {
	id, err := nanoid.New()
	if err != nil {
		// Entropy failure; fall back to a timestamp-only ID.
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return "run-" + id
}
