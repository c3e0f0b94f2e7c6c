package internal

// Character constants
const (
	CharOpenBrace  = '{'
	CharCloseBrace = '}'
	CharNewline    = '\n'
	CharUnderscore = '_'
	CharDot        = '.'
	CharHyphen     = '-'
)

// SegmentKind identifies template segment types
type SegmentKind int

// Segment kind constants
const (
	SegmentText SegmentKind = iota
	SegmentField
)

// Segment kind names for debugging
const (
	SegmentNameText  = "TEXT"
	SegmentNameField = "FIELD"
)

// String returns the string representation of the segment kind
func (k SegmentKind) String() string {
	if k == SegmentField {
		return SegmentNameField
	}
	return SegmentNameText
}

// Scanner error messages
const (
	ErrMsgUnclosedPlaceholder = "unclosed placeholder"
	ErrMsgStrayCloseBrace     = "single '}' encountered in template"
	ErrMsgEmptyFieldName      = "placeholder name cannot be empty"
	ErrMsgInvalidFieldName    = "invalid placeholder name"
)

// Log messages
const (
	LogMsgScanStart = "scanning template"
	LogMsgScanEnd   = "template scanned"
)

// Log fields
const (
	LogFieldSource   = "source_length"
	LogFieldSegments = "segments"
)
