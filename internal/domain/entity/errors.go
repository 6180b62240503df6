package entity

import (
	"context"
	"fmt"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

var (
	ErrMissingKey       = crerr.New("missing key")
	ErrMalformedPayload = crerr.New("malformed payload")
	ErrStorage          = crerr.New("storage failure")
)

// Kind is the error kind reported in ingestion summaries.
type Kind string

const (
	KindMissingKey       Kind = "MissingKeyError"
	KindMalformedPayload Kind = "MalformedPayloadError"
	KindStorage          Kind = "StorageError"
	KindCanceled         Kind = "Canceled"
	KindUnknown          Kind = "UnknownError"
)

// MissingKeyError reports a record whose identity fields are absent.
type MissingKeyError struct {
	Entity string
	Fields []string
}

func NewMissingKey(entityName string, fields ...string) *MissingKeyError {
	return &MissingKeyError{Entity: entityName, Fields: fields}
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s: missing key %s", e.Entity, strings.Join(e.Fields, ", "))
}

func (e *MissingKeyError) Is(target error) bool {
	return target == ErrMissingKey
}

// MalformedPayloadError reports a payload section that is present but has the
// wrong shape.
type MalformedPayloadError struct {
	Path string
	Err  error
}

func NewMalformed(path string, format string, args ...any) *MalformedPayloadError {
	return &MalformedPayloadError{Path: path, Err: crerr.Newf(format, args...)}
}

func (e *MalformedPayloadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("malformed payload at %s", e.Path)
	}
	return fmt.Sprintf("malformed payload at %s: %v", e.Path, e.Err)
}

func (e *MalformedPayloadError) Unwrap() error {
	return e.Err
}

func (e *MalformedPayloadError) Is(target error) bool {
	return target == ErrMalformedPayload
}

// StorageError reports a write or read rejected by the underlying store.
type StorageError struct {
	Op     string
	Entity string
	Err    error
}

func WrapStorage(err error, op, entityName string) error {
	if err == nil {
		return nil
	}
	if crerr.Is(err, ErrStorage) {
		return err
	}
	return &StorageError{Op: op, Entity: entityName, Err: err}
}

func (e *StorageError) Error() string {
	if e.Entity == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// KindOf classifies err for batch summaries. Storage failures win over the
// other kinds because they end the batch.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case crerr.Is(err, ErrStorage):
		return KindStorage
	case crerr.Is(err, ErrMalformedPayload):
		return KindMalformedPayload
	case crerr.Is(err, ErrMissingKey):
		return KindMissingKey
	case crerr.Is(err, context.Canceled), crerr.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindUnknown
	}
}

// IsFatal reports whether err must stop a batch instead of failing one item.
func IsFatal(err error) bool {
	switch KindOf(err) {
	case KindStorage, KindCanceled:
		return true
	default:
		return false
	}
}
