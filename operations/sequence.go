package operations

import "github.com/Masterminds/semver/v3"

// SequenceHandler is the function signature of a sequence handler.
// A sequence handler executes operations through ExecuteOperation using the bundle it receives.
type SequenceHandler[IN, OUT, DEP any] func(b Bundle, deps DEP, input IN) (output OUT, err error)

// Sequence is a group of operations executed in order by its handler.
// Use NewSequence to create a new sequence.
type Sequence[IN, OUT, DEP any] struct {
	def     Definition
	handler SequenceHandler[IN, OUT, DEP]
}

// NewSequence creates a new sequence.
func NewSequence[IN, OUT, DEP any](
	id string, version *semver.Version, description string, handler SequenceHandler[IN, OUT, DEP],
) *Sequence[IN, OUT, DEP] {
	return &Sequence[IN, OUT, DEP]{
		def: Definition{
			ID:          id,
			Version:     version,
			Description: description,
		},
		handler: handler,
	}
}

// ID returns the sequence ID.
func (s *Sequence[IN, OUT, DEP]) ID() string {
	return s.def.ID
}

// Version returns the sequence semver version in string.
func (s *Sequence[IN, OUT, DEP]) Version() string {
	return s.def.Version.String()
}

// Description returns the sequence description.
func (s *Sequence[IN, OUT, DEP]) Description() string {
	return s.def.Description
}
