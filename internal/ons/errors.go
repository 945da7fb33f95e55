package ons

import (
	"errors"
	"fmt"

	"github.com/ppaulojr/stockanalisys/internal/httpclient"
)

// ErrorKind classifies client failures so callers can degrade appropriately.
type ErrorKind string

const (
	// KindNetwork covers unreachable endpoints, transport failures and 5xx.
	KindNetwork ErrorKind = "network"
	// KindNotFound covers missing datasets, resources and fixture files.
	KindNotFound ErrorKind = "not_found"
	// KindParse covers malformed responses and rows that cannot be decoded.
	KindParse ErrorKind = "parse"
)

// Error is a typed ONS client error.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ons: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("ons: %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// classify maps an upstream failure onto an error kind: 404 means the
// dataset/resource does not exist, other 4xx/5xx and transport failures are
// network-class.
func classify(op string, err error) *Error {
	var apiErr *httpclient.APIError
	if errors.As(err, &apiErr) && apiErr.NotFound() {
		return newError(KindNotFound, op, err)
	}
	return newError(KindNetwork, op, err)
}

// KindOf returns the kind of an ONS client error, or "" for other errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsNotFound reports whether err is a missing-dataset/fixture error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsNetwork reports whether err is an unreachable-endpoint error.
func IsNetwork(err error) bool { return KindOf(err) == KindNetwork }
