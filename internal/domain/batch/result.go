package batch

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome of uploading one document in a batch.
type Result struct {
	id     string
	status ItemStatus
	err    error
}

// NewOK creates a successful batch result.
func NewOK(id string) Result { return Result{id: id, status: StatusOK} }

// NewError creates a failed batch result.
func NewError(id string, err error) Result { return Result{id: id, status: StatusError, err: err} }

// ID returns the document identifier.
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Failure records one rejected document.
type Failure struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// UploadOutcome accumulates results across every batch of one ingestion run.
// Succeeded never exceeds Attempted.
type UploadOutcome struct {
	Attempted int
	Succeeded int
	Batches   int
	Failures  []Failure
}

// Record folds one batch's per-document results into the outcome.
func (o *UploadOutcome) Record(results []Result) {
	o.Batches++
	for _, r := range results {
		o.Attempted++
		if r.Status() == StatusOK {
			o.Succeeded++
			continue
		}
		msg := "unknown error"
		if r.Err() != nil {
			msg = r.Err().Error()
		}
		o.Failures = append(o.Failures, Failure{ID: r.ID(), Message: msg})
	}
}

// Failed returns the number of documents that were not accepted.
func (o *UploadOutcome) Failed() int { return o.Attempted - o.Succeeded }

// SuccessRate returns the accepted share in percent, 0 when nothing was attempted.
func (o *UploadOutcome) SuccessRate() float64 {
	if o.Attempted == 0 {
		return 0
	}
	return float64(o.Succeeded) / float64(o.Attempted) * 100
}
