package parsec

import (
	"iter"
	"sync"
	"unicode/utf8"
)

// Stream is an immutable view of the rest of the input.
//
// Next returns the head element and a stream positioned one element later,
// or ok=false once the input is exhausted. Calling Next on the same value
// any number of times yields the same answer, so streams may be shared and
// reused freely.
type Stream[C any] interface {
	Next() (head C, tail Stream[C], ok bool)
}

// Text is a Stream of runes over a string. It stores the backing string and
// a byte offset, so advancing never copies.
type Text struct {
	src string
	off int
}

// FromString returns a Text positioned at the start of s.
func FromString(s string) Text {
	return Text{src: s}
}

func (t Text) Next() (rune, Stream[rune], bool) {
	if t.off >= len(t.src) {
		return 0, t, false
	}
	r, size := utf8.DecodeRuneInString(t.src[t.off:])
	return r, Text{src: t.src, off: t.off + size}, true
}

// Offset returns the byte offset of t into the original string.
func (t Text) Offset() int { return t.off }

// Len returns the number of bytes remaining.
func (t Text) Len() int { return len(t.src) - t.off }

// String returns the remaining text.
func (t Text) String() string { return t.src[t.off:] }

// Slice is a Stream over the elements of a slice.
type Slice[T any] struct {
	items []T
	off   int
}

// FromSlice returns a Slice positioned at the first element of items.
func FromSlice[T any](items []T) Slice[T] {
	return Slice[T]{items: items}
}

func (s Slice[T]) Next() (T, Stream[T], bool) {
	if s.off >= len(s.items) {
		var zero T
		return zero, s, false
	}
	return s.items[s.off], Slice[T]{items: s.items, off: s.off + 1}, true
}

// Offset returns the index of the next element.
func (s Slice[T]) Offset() int { return s.off }

// Len returns the number of elements remaining.
func (s Slice[T]) Len() int { return len(s.items) - s.off }

// lazy is one cell of a memoized stream over a producer function. Each cell
// asks the producer for its element exactly once; the producer therefore
// sees calls strictly in order, even when cells are forced from several
// goroutines.
type lazy[C any] struct {
	once sync.Once
	pull func() (C, bool)

	head C
	tail *lazy[C]
	ok   bool
}

// FromFunc returns a Stream whose elements are produced on demand by next.
// Produced elements are remembered, so the stream can be restarted from any
// earlier position.
func FromFunc[C any](next func() (C, bool)) Stream[C] {
	return &lazy[C]{pull: next}
}

func (l *lazy[C]) Next() (C, Stream[C], bool) {
	l.once.Do(func() {
		l.head, l.ok = l.pull()
		if l.ok {
			l.tail = &lazy[C]{pull: l.pull}
		}
		l.pull = nil
	})
	if !l.ok {
		return l.head, l, false
	}
	return l.head, l.tail, true
}

// FromSeq returns a lazy Stream over seq. The iterator is pulled only as far
// as the parse reads. Callers must call release once they are done with the
// stream; elements not read by then appear as end of input. release may be
// called more than once.
func FromSeq[C any](seq iter.Seq[C]) (s Stream[C], release func()) {
	next, stop := iter.Pull(seq)
	return FromFunc(func() (C, bool) {
		v, ok := next()
		if !ok {
			stop()
		}
		return v, ok
	}), stop
}

// All returns the remaining elements of s as a sequence. Ranging over the
// result does not affect s, and the sequence can be ranged over again.
func All[C any](s Stream[C]) iter.Seq[C] {
	return func(yield func(C) bool) {
		cur := s
		for {
			head, tail, ok := cur.Next()
			if !ok || !yield(head) {
				return
			}
			cur = tail
		}
	}
}

// Elements returns the remaining elements of s.
func Elements[C any](s Stream[C]) []C {
	var out []C
	for c := range All(s) {
		out = append(out, c)
	}
	return out
}
