package services

// Outcome tells the caller of a mutation what happened and how to proceed.
// Mutations never signal normal control flow through Go errors or panics;
// every path returns a Result the caller inspects.
type Outcome int

const (
	// OutcomeRedirect: the write succeeded and the caller should transfer
	// control to Result.RedirectTo. Nothing runs after this in the pipeline.
	OutcomeRedirect Outcome = iota
	// OutcomeInvalid: field validation failed; nothing was persisted.
	OutcomeInvalid
	// OutcomeStoreError: validation passed but the store rejected the write;
	// no cache invalidation happened and the caller stays on the current view.
	OutcomeStoreError
	// OutcomeDeleted: a delete succeeded; the caller stays on the listing,
	// which the invalidation alone refreshes.
	OutcomeDeleted
)

// Result is the outcome of one mutation pipeline invocation.
type Result struct {
	Outcome     Outcome
	RedirectTo  string      // set only for OutcomeRedirect
	Message     string      // human-readable summary
	FieldErrors FieldErrors // set only for OutcomeInvalid
}
