package lexer

// Stream is a fully materialized token sequence with a movable cursor.
// The final token is always TokenEOF; reading past it keeps returning EOF.
type Stream struct {
	toks []Token
	pos  int
}

// Mark is a saved cursor position
type Mark int

// NewStream wraps toks, appending an EOF token if toks does not end with one
func NewStream(toks []Token) *Stream {
	if len(toks) == 0 || toks[len(toks)-1].Type != TokenEOF {
		eof := Token{Type: TokenEOF, Line: 1, Column: 1}
		if len(toks) > 0 {
			last := toks[len(toks)-1]
			eof.Line = last.Line
			eof.Column = last.Column + last.Span.Length
			eof.Span = Span{Start: last.Span.End()}
		}
		toks = append(toks[:len(toks):len(toks)], eof)
	}
	return &Stream{toks: toks}
}

// NewStreamString tokenizes input into a Stream
func NewStreamString(input string) (*Stream, error) {
	toks, err := Tokenize(input)
	if err != nil {
		return nil, err
	}
	return NewStream(toks), nil
}

// Pos returns the index of the current token
func (s *Stream) Pos() int {
	return s.pos
}

// Len returns the number of tokens including the trailing EOF
func (s *Stream) Len() int {
	return len(s.toks)
}

// At returns the token at absolute index i, or EOF past the end
func (s *Stream) At(i int) Token {
	if i < 0 {
		i = 0
	}
	if i >= len(s.toks) {
		return s.toks[len(s.toks)-1]
	}
	return s.toks[i]
}

// Peek returns the token n positions ahead of the cursor; Peek(0) is current
func (s *Stream) Peek(n int) Token {
	return s.At(s.pos + n)
}

// Next returns the current token and advances the cursor
func (s *Stream) Next() Token {
	tok := s.At(s.pos)
	if s.pos < len(s.toks)-1 {
		s.pos++
	}
	return tok
}

// Advance moves the cursor forward by n tokens, stopping at EOF
func (s *Stream) Advance(n int) {
	s.pos = min(s.pos+n, len(s.toks)-1)
}

// Save records the cursor for a later Restore
func (s *Stream) Save() Mark {
	return Mark(s.pos)
}

// Restore moves the cursor back to m
func (s *Stream) Restore(m Mark) {
	s.pos = int(m)
}

// Prev returns the most recently consumed token
func (s *Stream) Prev() Token {
	return s.At(s.pos - 1)
}
