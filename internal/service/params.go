package service

import (
	"context"

	"github.com/nsukonny/ecurring-sync/internal/config"
	"github.com/nsukonny/ecurring-sync/internal/domain/user"
	"github.com/nsukonny/ecurring-sync/internal/domain/usermeta"
	"github.com/nsukonny/ecurring-sync/internal/ecurring"
	ierr "github.com/nsukonny/ecurring-sync/internal/errors"
	"github.com/nsukonny/ecurring-sync/internal/logger"
	"github.com/nsukonny/ecurring-sync/internal/types"
)

// ServiceParams bundles the dependencies shared by all services
type ServiceParams struct {
	Logger   *logger.Logger
	Config   *config.Configuration
	Provider ecurring.Client
	UserRepo user.Repository
	MetaRepo usermeta.Repository
}

// NewServiceParams creates a new service params struct that can be used to
// inject dependencies into the services
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	provider ecurring.Client,
	userRepo user.Repository,
	metaRepo usermeta.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:   logger,
		Config:   config,
		Provider: provider,
		UserRepo: userRepo,
		MetaRepo: metaRepo,
	}
}

// currentUser resolves the acting local user from the request context.
// Identity itself comes from the boundary (session/auth middleware); the
// services only need the directory record behind it.
func (p ServiceParams) currentUser(ctx context.Context) (*user.User, error) {
	userID := types.GetUserID(ctx)
	if userID == "" {
		return nil, ierr.NewError("no acting user in context").
			WithHint("Authentication required").
			Mark(ierr.ErrPermissionDenied)
	}
	return p.UserRepo.GetByID(ctx, userID)
}
