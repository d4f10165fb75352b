package service

import "errors"

var errStore = errors.New("store unavailable")
