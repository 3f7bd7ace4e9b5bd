package core

// Status describes the running assistant without exposing secrets.
type Status struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Storage   string   `json:"storage"`
	Models    []string `json:"models"`
	Embedder  string   `json:"embedder,omitempty"`
	Knowledge any      `json:"knowledge,omitempty"`
}

type StatusReporter interface {
	Status() Status
}

// StatusFunc adapts a plain function to StatusReporter.
type StatusFunc func() Status

func (f StatusFunc) Status() Status { return f() }
