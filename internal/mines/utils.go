package mines

// worklist is a LIFO of cell indices. Pushing a cell twice is allowed; the
// consumer skips cells it has already handled.
type worklist struct {
	items []int
}

func (w *worklist) push(i int) {
	w.items = append(w.items, i)
}

func (w *worklist) pop() (int, bool) {
	n := len(w.items)
	if n == 0 {
		return 0, false
	}
	i := w.items[n-1]
	w.items = w.items[:n-1]
	return i, true
}
