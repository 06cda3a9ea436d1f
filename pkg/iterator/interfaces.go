package iterator

// Iterator is the pull protocol shared by the splitter and its helpers.
//
// HasNext reports whether another element is available, doing whatever work
// is needed to find out (reading tokens, refilling buffers). Next returns that
// element; once the sequence is exhausted Next returns io.EOF. An error from
// either method is terminal.
//
// Iterators are single-consumer: they are driven by exactly one caller and
// cannot be rewound unless the concrete type says otherwise.
type Iterator[T any] interface {
	HasNext() (bool, error)
	Next() (T, error)
}
