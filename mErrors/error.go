package errors

import (
	zerror "github.com/0chain/errors"
)

const (
	ListingFailedErrCode         = "listing_failed"
	FolderCreateFailedErrCode    = "folder_create_failed"
	TransferFailedErrCode        = "transfer_failed"
	StatePersistFailedErrCode    = "state_persist_failed"
	StagingSpaceExhaustedErrCode = "staging_space_exhausted"
	OperationCancelledByUser     = "operation_cancelled_by_user"
)

var (
	ErrListingFailed            = zerror.New(ListingFailedErrCode, "")
	ErrFolderCreateFailed       = zerror.New(FolderCreateFailedErrCode, "")
	ErrTransferFailed           = zerror.New(TransferFailedErrCode, "")
	ErrStatePersistFailed       = zerror.New(StatePersistFailedErrCode, "")
	ErrStagingSpaceExhausted    = zerror.New(StagingSpaceExhaustedErrCode, "")
	ErrOperationCancelledByUser = zerror.New(OperationCancelledByUser, "")
)

func hasCode(err error, code string) bool {
	if err == nil {
		return false
	}

	switch err := err.(type) {
	case *zerror.Error:
		if err.Code == code {
			return true
		}
	}
	return false
}

func IsListingFailedError(err error) bool {
	return hasCode(err, ListingFailedErrCode)
}

func IsStagingSpaceExhaustedError(err error) bool {
	return hasCode(err, StagingSpaceExhaustedErrCode)
}

func IsOperationCancelledError(err error) bool {
	return hasCode(err, OperationCancelledByUser)
}
