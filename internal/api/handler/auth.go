package handler

import (
	"errors"
	"strings"

	"talktoearn/internal/models"
	"talktoearn/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupAuth struct {
	container *do.Injector
}

type loginPayload struct {
	Email       string `json:"email" form:"email"`
	Password    string `json:"password" form:"password"`
	DisplayName string `json:"display_name" form:"display_name"`
}

// Login is demo-grade: any non-empty email and password pair is accepted
// and materializes a user keyed by the email.
func (gr *groupAuth) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	email := strings.TrimSpace(strings.ToLower(payload.Email))
	if email == "" || payload.Password == "" {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("email and password are required"), errorx.Invalid))
	}

	serviceUser, err := do.Invoke[*services.ServiceUser](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	userAuth := &models.UserFromAuth{ID: email, DisplayName: strings.TrimSpace(payload.DisplayName)}
	user, err := serviceUser.FindOrCreateUser(ctx, userAuth)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	authentication, err := do.Invoke[*services.Authentication](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	token, err := authentication.CreateToken(userAuth)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"token": token,
		"user":  user,
	}, nil)
}
