package executor

import "errors"

var ErrNilLaunch = errors.New("executor: launch was nil")
