package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/primepost/internal/client/client"
	"github.com/dmitrijs2005/primepost/internal/client/teardown"
	"github.com/dmitrijs2005/primepost/internal/common"
	"github.com/dmitrijs2005/primepost/internal/logging"
)

var ErrConfirmationMismatch = fmt.Errorf("type %q to confirm", common.FactoryResetPhrase)

type Teardown interface {
	PerformFactoryResetCleanup(ctx context.Context) teardown.Report
}

type AdminService struct {
	backend  client.Backend
	teardown Teardown
	logger   logging.Logger
}

func NewAdminService(backend client.Backend, td Teardown, logger logging.Logger) *AdminService {
	return &AdminService{backend: backend, teardown: td, logger: logger.With("module", "admin")}
}

// FactoryReset wipes all backend data and then every local trace of it.
// Local cleanup only runs once the backend has confirmed the reset.
func (a *AdminService) FactoryReset(ctx context.Context, confirmation string) (teardown.Report, error) {
	if confirmation != common.FactoryResetPhrase {
		return teardown.Report{}, ErrConfirmationMismatch
	}
	if err := a.backend.FactoryReset(ctx); err != nil {
		if errors.Is(err, common.ErrForbidden) {
			return teardown.Report{}, fmt.Errorf("factory reset requires a super admin: %w", err)
		}
		return teardown.Report{}, fmt.Errorf("factory reset: %w", err)
	}
	a.logger.Warn(ctx, "backend factory reset complete, clearing local data")
	return a.teardown.PerformFactoryResetCleanup(ctx), nil
}
