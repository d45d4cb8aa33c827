package internal

import (
	"iter"
)

// IterSeqConcat concatenates multiple iterators into a single iterator sequence.
func IterSeqConcat[T any](seqs ...iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, seq := range seqs {
			for val := range seq {
				if !yield(val) {
					return // Stop if the consumer stops
				}
			}
		}
	}
}

// IterSeqMap applies fn to each value of seq.
func IterSeqMap[T any, U any](seq iter.Seq[T], fn func(T) U) iter.Seq[U] {
	return func(yield func(U) bool) {
		for val := range seq {
			if !yield(fn(val)) {
				return
			}
		}
	}
}
