package model

import "errors"

// ErrorCode classifies engine failures for callers that must translate them
// (HTTP status, CLI exit message, outcome category).
type ErrorCode string

const (
	CodeNotFound            ErrorCode = "NOT_FOUND"
	CodeInvalidStructuralOp ErrorCode = "INVALID_STRUCTURAL_OPERATION"
	CodeDuplicateKey        ErrorCode = "DUPLICATE_KEY"
	CodeTransport           ErrorCode = "TRANSPORT_FAILURE"
	CodeInternal            ErrorCode = "INTERNAL_ERROR"
)

var (
	// ErrNotFound: the record vanished or never existed. Usually tolerated.
	ErrNotFound = errors.New("registro no encontrado")
	// ErrInvalidStructuralOperation: a tree mutation that would break an
	// invariant. The tree is always left as it was before the call.
	ErrInvalidStructuralOperation = errors.New("operacion estructural invalida")
	// ErrDuplicateKey: a conditional create found the key already taken.
	ErrDuplicateKey = errors.New("el codigo ya existe")
	// ErrTransport: the store could not be reached or refused the request.
	ErrTransport = errors.New("fallo de comunicacion con el almacenamiento")
)

// CodeOf maps an error chain to its ErrorCode.
func CodeOf(err error) ErrorCode {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidStructuralOperation):
		return CodeInvalidStructuralOp
	case errors.Is(err, ErrDuplicateKey):
		return CodeDuplicateKey
	case errors.Is(err, ErrTransport):
		return CodeTransport
	}
	return CodeInternal
}

// MsgInternal is shown to clients in place of unclassified failures.
const MsgInternal = "Error interno del servidor"

// PublicMessage returns the text of err that is safe to show to a client.
// Transport failures wrap driver errors carrying hosts and credentials, so
// they collapse to the bare sentinel; unclassified errors to MsgInternal.
func PublicMessage(err error) string {
	switch CodeOf(err) {
	case "":
		return ""
	case CodeTransport:
		return ErrTransport.Error()
	case CodeInternal:
		return MsgInternal
	}
	return err.Error()
}
