package views

import "errors"

var errRequestClosed = errors.New("request already reviewed")
