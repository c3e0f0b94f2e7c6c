package internal

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Position represents a location in the source template
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// Segment is either literal text or a named field reference
type Segment struct {
	Kind     SegmentKind
	Value    string // Literal text, or the field name
	Position Position
}

// ScanError reports malformed placeholder syntax
type ScanError struct {
	Message  string
	Position Position
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s at %s", e.Message, e.Position)
}

// Scanner splits template source into text and field segments.
// Placeholders are written {name}; {{ and }} produce literal braces.
type Scanner struct {
	source string
	pos    int
	line   int
	column int
	logger *zap.Logger
}

// NewScanner creates a scanner over source
func NewScanner(source string, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		source: source,
		line:   1,
		column: 1,
		logger: logger,
	}
}

// Scan processes the source and returns its segments. Adjacent literal text is merged.
func (s *Scanner) Scan() ([]Segment, error) {
	s.logger.Debug(LogMsgScanStart, zap.Int(LogFieldSource, len(s.source)))
	var segments []Segment
	var text strings.Builder
	textStart := s.currentPosition()

	flush := func() {
		if text.Len() > 0 {
			segments = append(segments, Segment{Kind: SegmentText, Value: text.String(), Position: textStart})
			text.Reset()
		}
	}

	for !s.isAtEnd() {
		ch := s.peek()
		switch {
		case ch == CharOpenBrace && s.peekNext() == CharOpenBrace:
			if text.Len() == 0 {
				textStart = s.currentPosition()
			}
			s.advanceN(2)
			text.WriteByte(CharOpenBrace)
		case ch == CharCloseBrace && s.peekNext() == CharCloseBrace:
			if text.Len() == 0 {
				textStart = s.currentPosition()
			}
			s.advanceN(2)
			text.WriteByte(CharCloseBrace)
		case ch == CharCloseBrace:
			return nil, &ScanError{Message: ErrMsgStrayCloseBrace, Position: s.currentPosition()}
		case ch == CharOpenBrace:
			flush()
			field, err := s.scanField()
			if err != nil {
				return nil, err
			}
			segments = append(segments, field)
			textStart = s.currentPosition()
		default:
			if text.Len() == 0 {
				textStart = s.currentPosition()
			}
			text.WriteByte(s.advance())
		}
	}
	flush()

	s.logger.Debug(LogMsgScanEnd, zap.Int(LogFieldSegments, len(segments)))
	return segments, nil
}

// scanField consumes {name} starting at the open brace
func (s *Scanner) scanField() (Segment, error) {
	start := s.currentPosition()
	s.advance() // consume {

	var sb strings.Builder
	for !s.isAtEnd() && s.peek() != CharCloseBrace {
		if s.peek() == CharOpenBrace {
			return Segment{}, &ScanError{Message: ErrMsgInvalidFieldName, Position: s.currentPosition()}
		}
		sb.WriteByte(s.advance())
	}
	if s.isAtEnd() {
		return Segment{}, &ScanError{Message: ErrMsgUnclosedPlaceholder, Position: start}
	}
	s.advance() // consume }

	name := sb.String()
	if name == "" {
		return Segment{}, &ScanError{Message: ErrMsgEmptyFieldName, Position: start}
	}
	if !IsValidFieldName(name) {
		return Segment{}, &ScanError{Message: ErrMsgInvalidFieldName, Position: start}
	}
	return Segment{Kind: SegmentField, Value: name, Position: start}, nil
}

// IsValidFieldName reports whether name can be used as a placeholder:
// a letter or underscore followed by letters, digits, underscores, dots or hyphens.
func IsValidFieldName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		ch := name[i]
		if isLetter(ch) || ch == CharUnderscore {
			continue
		}
		if i > 0 && (isDigit(ch) || ch == CharDot || ch == CharHyphen) {
			continue
		}
		return false
	}
	return true
}

// FieldNames returns the distinct field names of segments in first-occurrence order
func FieldNames(segments []Segment) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, seg := range segments {
		if seg.Kind != SegmentField {
			continue
		}
		if _, ok := seen[seg.Value]; ok {
			continue
		}
		seen[seg.Value] = struct{}{}
		names = append(names, seg.Value)
	}
	return names
}

func (s *Scanner) isAtEnd() bool {
	return s.pos >= len(s.source)
}

func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return 0
	}
	return s.source[s.pos]
}

func (s *Scanner) peekNext() byte {
	if s.pos+1 >= len(s.source) {
		return 0
	}
	return s.source[s.pos+1]
}

func (s *Scanner) advance() byte {
	ch := s.source[s.pos]
	s.pos++
	if ch == CharNewline {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	return ch
}

func (s *Scanner) advanceN(n int) {
	for i := 0; i < n && !s.isAtEnd(); i++ {
		s.advance()
	}
}

func (s *Scanner) currentPosition() Position {
	return Position{Offset: s.pos, Line: s.line, Column: s.column}
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
