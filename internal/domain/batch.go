package domain

// BatchResult partitions the outcome of a bulk operation item by item.
type BatchResult[T any] struct {
	Succeeded []T               `json:"succeeded"`
	Failed    []BatchFailure[T] `json:"failed"`
}

type BatchFailure[T any] struct {
	Input  T      `json:"input"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

func (r *BatchResult[T]) Ok(in T) {
	r.Succeeded = append(r.Succeeded, in)
}

func (r *BatchResult[T]) Fail(in T, err error) {
	r.Failed = append(r.Failed, BatchFailure[T]{Input: in, Reason: err.Error(), Err: err})
}
