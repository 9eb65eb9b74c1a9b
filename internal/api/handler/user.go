package handler

import (
	"talktoearn/internal/pkg/query"
	"talktoearn/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupUser struct {
	container *do.Injector
}

func (gr *groupUser) Me(c echo.Context) error {
	user, err := ResolveValidUser(c.Request().Context(), gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, user, nil)
}

// QR returns the profile token other attendees scan at a meetup.
func (gr *groupUser) QR(c echo.Context) error {
	user, err := ResolveValidUser(c.Request().Context(), gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceUser, err := do.Invoke[*services.ServiceUser](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"token": serviceUser.ProfileToken(user),
	}, nil)
}

// Bounties lists what the caller owns and what they applied to.
func (gr *groupUser) Bounties(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceBounty, err := do.Invoke[*services.ServiceBounty](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	owned, err := serviceBounty.Search(ctx, query.Params{OwnedBy: user.ID})
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	applied, err := serviceBounty.Search(ctx, query.Params{AppliedBy: user.ID})
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"owned":   owned,
		"applied": applied,
	}, nil)
}

// Archive lists the caller's bounties already swept into cold storage.
func (gr *groupUser) Archive(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceArchive, err := do.Invoke[*services.ServiceArchive](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	archives, err := serviceArchive.ArchivedByOwner(ctx, user.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, archives, nil)
}

type connectWalletPayload struct {
	Address string `json:"address" form:"address"`
}

func (gr *groupUser) ConnectTonWallet(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload connectWalletPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceUser, err := do.Invoke[*services.ServiceUser](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	user, err = serviceUser.ConnectTONWallet(ctx, user, payload.Address)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, user, nil)
}

type linkTelegramPayload struct {
	ChatID int64 `json:"chat_id" form:"chat_id"`
}

// LinkTelegram opts the caller into owner notifications.
func (gr *groupUser) LinkTelegram(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload linkTelegramPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceUser, err := do.Invoke[*services.ServiceUser](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	user, err = serviceUser.LinkTelegram(ctx, user, payload.ChatID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, user, nil)
}

func (gr *groupUser) ConnectEVMWallet(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload connectWalletPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceUser, err := do.Invoke[*services.ServiceUser](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	user, err = serviceUser.ConnectEVMWallet(ctx, user, payload.Address)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, user, nil)
}
