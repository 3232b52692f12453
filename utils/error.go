package utils

import "errors"

var (
	ErrorRecordNotFound     = errors.New("record not found")
	ErrorUnknownCollection  = errors.New("unknown collection")
	ErrorLocalStoreDisabled = errors.New("local store is not available")
)
