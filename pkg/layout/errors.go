package layout

import (
	"errors"
	"fmt"

	rerrors "github.com/matzehuels/railyard/pkg/errors"
)

// Sentinel errors for programmatic error checking via errors.Is().
var (
	// ErrSchema indicates a missing or malformed field in a raw record.
	ErrSchema = errors.New("schema error")

	// ErrDuplicateID indicates an id collision within a scope.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrReferenceIntegrity indicates a reference to an id that does not exist.
	ErrReferenceIntegrity = errors.New("reference integrity error")

	// ErrNotFound indicates that no track joins the queried nodes.
	ErrNotFound = errors.New("no connecting track")
)

// Scope names an id namespace. Node ids and track ids are unique within
// their own scope only.
type Scope string

const (
	ScopeNode  Scope = "node"
	ScopeTrack Scope = "track"
)

// SchemaError reports a required field that is absent or has the wrong type,
// or a field whose value is out of range.
// Wraps ErrSchema for errors.Is() compatibility.
type SchemaError struct {
	Field  string // Offending field name, e.g. "start_node"
	Record string // Record locator within the build input, e.g. "tracks[2]" (optional)
	Msg    string // Deterministic error message
}

func (e *SchemaError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Msg
	if msg == "" {
		msg = "required field is missing"
	}
	prefix := ErrSchema.Error()
	if e.Record != "" {
		prefix += ": " + e.Record
	}
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", prefix, msg)
	}
	return fmt.Sprintf("%s: field %q: %s", prefix, e.Field, msg)
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// Code returns the error code for this error type.
func (e *SchemaError) Code() rerrors.Code { return rerrors.ErrCodeInvalidSchema }

// DuplicateIDError reports a second record reusing an id within a scope.
// Wraps ErrDuplicateID for errors.Is() compatibility.
type DuplicateIDError struct {
	ID    string
	Scope Scope
}

func (e *DuplicateIDError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s %q", ErrDuplicateID.Error(), e.Scope, e.ID)
}

func (e *DuplicateIDError) Unwrap() error { return ErrDuplicateID }

// Code returns the error code for this error type.
func (e *DuplicateIDError) Code() rerrors.Code { return rerrors.ErrCodeDuplicateID }

// ReferenceIntegrityError reports a track endpoint naming a node that does
// not exist. Wraps ErrReferenceIntegrity for errors.Is() compatibility.
type ReferenceIntegrityError struct {
	TrackID       string
	MissingNodeID string
}

func (e *ReferenceIntegrityError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: track %q references unknown node %q",
		ErrReferenceIntegrity.Error(), e.TrackID, e.MissingNodeID)
}

func (e *ReferenceIntegrityError) Unwrap() error { return ErrReferenceIntegrity }

// Code returns the error code for this error type.
func (e *ReferenceIntegrityError) Code() rerrors.Code { return rerrors.ErrCodeReferenceIntegrity }

// DanglingTrackError reports a node naming a track that does not exist.
// It is only produced when building with [WithStrictReferences].
// Wraps ErrReferenceIntegrity for errors.Is() compatibility.
type DanglingTrackError struct {
	NodeID         string
	Field          string // "track", "facing", "forward" or "reverse"
	MissingTrackID string
}

func (e *DanglingTrackError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: node %q %s references unknown track %q",
		ErrReferenceIntegrity.Error(), e.NodeID, e.Field, e.MissingTrackID)
}

func (e *DanglingTrackError) Unwrap() error { return ErrReferenceIntegrity }

// Code returns the error code for this error type.
func (e *DanglingTrackError) Code() rerrors.Code { return rerrors.ErrCodeReferenceIntegrity }

// NotFoundError reports an adjacency query with no connecting track.
// Wraps ErrNotFound for errors.Is() compatibility.
type NotFoundError struct {
	A, B string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s between %q and %q", ErrNotFound.Error(), e.A, e.B)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Code returns the error code for this error type.
func (e *NotFoundError) Code() rerrors.Code { return rerrors.ErrCodeNotFound }
