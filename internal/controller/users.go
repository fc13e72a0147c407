package controller

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pulse-backoffice/internal/application"
	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
)

// Users is the user management view.
type Users struct {
	*Collection[entity.User]
	svc *application.UserService
}

func NewUsers(svc *application.UserService, logger *logrus.Logger) *Users {
	return &Users{
		Collection: NewCollection("users", svc.List, logger),
		svc:        svc,
	}
}

func (u *Users) Create(ctx context.Context, in application.CreateUserInput) (*entity.User, error) {
	return Mutation(ctx, u.Collection, func(ctx context.Context) (*entity.User, error) {
		return u.svc.Create(ctx, in)
	})
}

func (u *Users) Update(ctx context.Context, id string, in application.UpdateUserInput) (*entity.User, error) {
	return Mutation(ctx, u.Collection, func(ctx context.Context) (*entity.User, error) {
		return u.svc.Update(ctx, id, in)
	})
}

func (u *Users) ToggleStatus(ctx context.Context, id string, status entity.UserStatus) (bool, error) {
	return Mutation(ctx, u.Collection, func(ctx context.Context) (bool, error) {
		return u.svc.ToggleStatus(ctx, id, status)
	})
}

// Filter applies f to the loaded users.
func (u *Users) Filter(f application.UserFilter) []entity.User {
	return application.FilterUsers(u.Items(), f)
}
