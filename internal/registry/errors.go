package registry

import (
	"fmt"

	util "github.com/spec-kit/land-registry/pkg/util"
)

// Stable error codes for every precondition violation the ledger rejects.
// The HTTP layer maps these to responses; the ledger itself never retries.
const (
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeNotRegistered      = "NOT_REGISTERED"
	CodeAlreadyRegistered  = "ALREADY_REGISTERED"
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidState       = "INVALID_STATE"
	CodeTransferInProgress = "TRANSFER_IN_PROGRESS"
	CodeNoPendingTransfer  = "NO_PENDING_TRANSFER"
)

func errUnauthorized(message string) error {
	return util.NewForbidden(CodeUnauthorized, message)
}

func errNotRegistered(address string) error {
	return util.NewForbidden(CodeNotRegistered, fmt.Sprintf("identity %s is not registered", address))
}

func errAlreadyRegistered(address string) error {
	return util.NewConflict(CodeAlreadyRegistered, fmt.Sprintf("identity %s is already registered", address), nil)
}

func errPropertyNotFound(id uint64) error {
	return util.NewNotFound("property", map[string]any{"property_id": id})
}

func errInvalidState(message string) error {
	return util.NewConflict(CodeInvalidState, message, nil)
}

func errTransferInProgress(id uint64) error {
	return util.NewConflict(CodeTransferInProgress, "a transfer request is already pending", map[string]any{"property_id": id})
}

func errNoPendingTransfer(id uint64) error {
	return util.NewConflict(CodeNoPendingTransfer, "no pending transfer request", map[string]any{"property_id": id})
}
