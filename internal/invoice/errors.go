package invoice

// Stage names the step of invoice generation that failed
type Stage string

const (
	StageCompute Stage = "compute"
	StageLayout  Stage = "layout"
	StageRender  Stage = "render"
)

// ValidationError reports a request payload that is not a JSON object.
// Nothing is processed when it is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RenderError wraps any failure while computing, laying out or rendering an
// invoice. Error returns the underlying message unchanged.
type RenderError struct {
	Stage Stage
	Err   error
}

func (e *RenderError) Error() string {
	return e.Err.Error()
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
