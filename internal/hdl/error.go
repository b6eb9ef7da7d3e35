package hdl

import "errors"

var ErrInternal = errors.New("internal error")
var ErrDecodeRequest = errors.New("decode request")
var ErrTooManyRequests = errors.New("too many requests")

var ErrUnauthorized = errors.New("unauthorized")
var ErrForbidden = errors.New("forbidden")

var ErrToRetrievePathArg = errors.New("error to retrieve path argument")
var ErrFailedToParseUUID = errors.New("failed to parse uid")
var ErrInvalidStatus = errors.New("status must be online or offline")
