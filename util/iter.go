package util

import (
	"iter"

	"github.com/benbjohnson/immutable"
)

// ListValues yields the elements of l from first to last
func ListValues[A any](l *immutable.List[A]) iter.Seq[A] {
	return func(yield func(A) bool) {
		itr := l.Iterator()
		for !itr.Done() {
			_, v := itr.Next()
			if !yield(v) {
				return
			}
		}
	}
}

func MapIter[A, B any](iter iter.Seq[A], f func(A) B) iter.Seq[B] {
	return func(yield func(B) bool) {
		for v := range iter {
			if !yield(f(v)) {
				return
			}
		}
	}
}

func FilterIter[A any](iter iter.Seq[A], keep func(A) bool) iter.Seq[A] {
	return func(yield func(A) bool) {
		for v := range iter {
			if keep(v) && !yield(v) {
				return
			}
		}
	}
}
