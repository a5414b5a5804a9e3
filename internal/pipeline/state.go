package pipeline

// State is a phase of a pipeline run.
type State int

const (
	Pending State = iota
	Acquiring
	Transcribing
	Extracting
	Enriching
	Reporting
	Done
	Failed
)

var stateNames = [...]string{
	Pending:      "pending",
	Acquiring:    "acquiring",
	Transcribing: "transcribing",
	Extracting:   "extracting",
	Enriching:    "enriching",
	Reporting:    "reporting",
	Done:         "done",
	Failed:       "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transitions follow s.
func (s State) Terminal() bool {
	return s == Done || s == Failed
}
