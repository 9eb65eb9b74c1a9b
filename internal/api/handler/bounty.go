package handler

import (
	"talktoearn/internal/models"
	"talktoearn/internal/pkg/query"
	"talktoearn/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupBounty struct {
	container *do.Injector
}

func (gr *groupBounty) List(c echo.Context) error {
	ctx := c.Request().Context()

	serviceBounty, err := do.Invoke[*services.ServiceBounty](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	params := query.Params{
		Text:      c.QueryParam("q"),
		Category:  c.QueryParam("category"),
		Status:    models.BountyStatus(c.QueryParam("status")),
		Kind:      c.QueryParam("kind"),
		OwnedBy:   c.QueryParam("owner"),
		AppliedBy: c.QueryParam("applicant"),
	}
	switch c.QueryParam("sort") {
	case "newest":
		params.Sort = query.SortNewest
	case "reward":
		params.Sort = query.SortRewardDesc
	}

	listings, err := serviceBounty.Search(ctx, params)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, listings, nil)
}

func (gr *groupBounty) Create(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var params services.CreateBountyParams
	if err := c.Bind(&params); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceBounty, err := do.Invoke[*services.ServiceBounty](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	bounty, err := serviceBounty.CreateBounty(ctx, user.ID, params)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, bounty, nil)
}

func (gr *groupBounty) Featured(c echo.Context) error {
	ctx := c.Request().Context()

	serviceBounty, err := do.Invoke[*services.ServiceBounty](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	bounty, err := serviceBounty.Featured(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, bounty, nil)
}

func (gr *groupBounty) Show(c echo.Context) error {
	ctx := c.Request().Context()

	serviceBounty, err := do.Invoke[*services.ServiceBounty](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	bounty, err := serviceBounty.GetBounty(ctx, c.Param("id"))
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, bounty, nil)
}

func (gr *groupBounty) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceBounty, err := do.Invoke[*services.ServiceBounty](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	if err := serviceBounty.DeleteBounty(ctx, c.Param("id"), user.ID); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, "ok", nil)
}

func (gr *groupBounty) Apply(c echo.Context) error {
	return gr.mutation(c, func(serviceBounty *services.ServiceBounty, ctx echo.Context, userID string) (*models.Bounty, error) {
		return serviceBounty.ApplyToBounty(ctx.Request().Context(), ctx.Param("id"), userID)
	})
}

func (gr *groupBounty) Withdraw(c echo.Context) error {
	return gr.mutation(c, func(serviceBounty *services.ServiceBounty, ctx echo.Context, userID string) (*models.Bounty, error) {
		return serviceBounty.WithdrawApplication(ctx.Request().Context(), ctx.Param("id"), userID)
	})
}

func (gr *groupBounty) Cancel(c echo.Context) error {
	return gr.mutation(c, func(serviceBounty *services.ServiceBounty, ctx echo.Context, userID string) (*models.Bounty, error) {
		return serviceBounty.CancelBounty(ctx.Request().Context(), ctx.Param("id"), userID)
	})
}

func (gr *groupBounty) Fulfill(c echo.Context) error {
	return gr.mutation(c, func(serviceBounty *services.ServiceBounty, ctx echo.Context, userID string) (*models.Bounty, error) {
		return serviceBounty.FulfillBounty(ctx.Request().Context(), ctx.Param("id"), userID)
	})
}

func (gr *groupBounty) mutation(c echo.Context, fn func(*services.ServiceBounty, echo.Context, string) (*models.Bounty, error)) error {
	user, err := ResolveValidUser(c.Request().Context(), gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceBounty, err := do.Invoke[*services.ServiceBounty](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	bounty, err := fn(serviceBounty, c, user.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, bounty, nil)
}

func (gr *groupBounty) QR(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceBounty, err := do.Invoke[*services.ServiceBounty](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	token, err := serviceBounty.BountyToken(ctx, c.Param("id"), user.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{"token": token}, nil)
}

type scanPayload struct {
	Token string `json:"token" form:"token"`
}

func (gr *groupBounty) Scan(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload scanPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceBounty, err := do.Invoke[*services.ServiceBounty](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	result, err := serviceBounty.ConfirmScan(ctx, user.ID, payload.Token)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, result, nil)
}
