package client

import (
	"errors"

	"github.com/dmitrijs2005/primepost/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = common.ErrUnauthorized
)
