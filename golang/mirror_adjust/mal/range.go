package mal

//Range is an iterator over the half interval [begin, end) with the step step.
type Range struct {
	begin, end, step, pos int
}

//NewRange initializes a new iterator over a half interval.
func NewRange(start, end, step int) *Range {
	return &Range{start, end, step, start}
}

//GetNext returns the next element from the iterator and moves the iterator
//to the next position.
func (r *Range) GetNext() int {
	val := r.pos
	r.pos += r.step
	return val
}

//HasNext checks whether there are more values in the iterator.
func (r *Range) HasNext() bool {
	return r.pos < r.end
}

//Len returns the total number of values the iterator yields.
func (r *Range) Len() int {
	if r.step <= 0 || r.end <= r.begin {
		return 0
	}
	return (r.end - r.begin + r.step - 1) / r.step
}
