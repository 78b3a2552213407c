package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/five82/wpstores/internal/account"
	"github.com/five82/wpstores/internal/dispatch"
	"github.com/five82/wpstores/internal/site"
)

// ErrNotSignedIn is returned by flows that need an access token.
var ErrNotSignedIn = errors.New("not signed in; run login first")

// await returns the first event on ch accepted by match.
func await[E any](ctx context.Context, ch <-chan E, match func(E) bool) (E, error) {
	var zero E
	for {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case e, ok := <-ch:
			if !ok {
				return zero, errors.New("event stream closed")
			}
			if match(e) {
				return e, nil
			}
		}
	}
}

func siteChange(cause dispatch.Type) func(site.Event) bool {
	return func(e site.Event) bool {
		changed, ok := e.(site.OnSiteChanged)
		return ok && changed.Cause == cause
	}
}

func accountChange(cause dispatch.Type) func(account.Event) bool {
	return func(e account.Event) bool {
		changed, ok := e.(account.OnAccountChanged)
		return ok && changed.CauseOfChange == cause
	}
}

// Login authenticates with the password grant and persists the token.
func (a *App) Login(ctx context.Context, username, password string) error {
	if !a.Config.HasAppSecrets() {
		return errors.New("app_id and app_secret are required to log in")
	}
	events, cancel := a.Account.Subscribe()
	defer cancel()

	a.Dispatcher.Dispatch(account.AuthenticateAction{Username: username, Password: password})
	e, err := await(ctx, events, func(e account.Event) bool {
		_, ok := e.(account.OnAuthenticationChanged)
		return ok
	})
	if err != nil {
		return err
	}
	if authErr := e.(account.OnAuthenticationChanged).Err; authErr != nil {
		return authErr
	}
	return nil
}

// RefreshSites pulls the account's sites and returns the new collection.
func (a *App) RefreshSites(ctx context.Context) (site.Sites, error) {
	if !a.Account.HasAccessToken() {
		return nil, ErrNotSignedIn
	}
	events, cancel := a.Sites.Subscribe()
	defer cancel()

	a.Dispatcher.Dispatch(site.FetchSitesAction{})
	e, err := await(ctx, events, siteChange(dispatch.UpdateSites))
	if err != nil {
		return nil, err
	}
	if siteErr := e.(site.OnSiteChanged).Err; siteErr != nil {
		return nil, siteErr
	}
	return a.Sites.Sites(), nil
}

// RefreshSite pulls one site by id.
func (a *App) RefreshSite(ctx context.Context, siteID int64) (site.SiteModel, error) {
	if !a.Account.HasAccessToken() {
		return site.SiteModel{}, ErrNotSignedIn
	}
	events, cancel := a.Sites.Subscribe()
	defer cancel()

	a.Dispatcher.Dispatch(site.FetchSiteAction{Site: site.SiteModel{SiteID: siteID}})
	e, err := await(ctx, events, siteChange(dispatch.UpdateSite))
	if err != nil {
		return site.SiteModel{}, err
	}
	if siteErr := e.(site.OnSiteChanged).Err; siteErr != nil {
		return site.SiteModel{}, siteErr
	}
	model, ok := a.Sites.SiteByID(siteID)
	if !ok {
		return site.SiteModel{}, fmt.Errorf("site %d missing after refresh", siteID)
	}
	return model, nil
}

// CreateSite requests a new site, or only validates it when DryRun is set.
func (a *App) CreateSite(ctx context.Context, payload site.NewSitePayload) (site.NewSiteResponsePayload, error) {
	events, cancel := a.Sites.Subscribe()
	defer cancel()

	a.Dispatcher.Dispatch(site.CreateNewSiteAction{Payload: payload})
	e, err := await(ctx, events, func(e site.Event) bool {
		_, ok := e.(site.OnNewSiteCreated)
		return ok
	})
	if err != nil {
		return site.NewSiteResponsePayload{}, err
	}
	return e.(site.OnNewSiteCreated).Payload, nil
}

// RefreshAccount pulls me/ and then me/settings.
func (a *App) RefreshAccount(ctx context.Context) (account.AccountModel, error) {
	if !a.Account.HasAccessToken() {
		return account.AccountModel{}, ErrNotSignedIn
	}
	events, cancel := a.Account.Subscribe()
	defer cancel()

	steps := []struct {
		action dispatch.Action
		cause  dispatch.Type
	}{
		{account.FetchAccountAction{}, dispatch.FetchedAccount},
		{account.FetchSettingsAction{}, dispatch.FetchedSettings},
	}
	for _, step := range steps {
		a.Dispatcher.Dispatch(step.action)
		e, err := await(ctx, events, accountChange(step.cause))
		if err != nil {
			return account.AccountModel{}, err
		}
		if accountErr := e.(account.OnAccountChanged).Err; accountErr != nil {
			return account.AccountModel{}, accountErr
		}
	}
	return a.Account.Account(), nil
}

// PushSettings posts params and reports whether the account changed.
func (a *App) PushSettings(ctx context.Context, params map[string]string) (bool, error) {
	if !a.Account.HasAccessToken() {
		return false, ErrNotSignedIn
	}
	events, cancel := a.Account.Subscribe()
	defer cancel()

	a.Dispatcher.Dispatch(account.PushSettingsAction{Params: params})
	e, err := await(ctx, events, accountChange(dispatch.PushedSettings))
	if err != nil {
		return false, err
	}
	changed := e.(account.OnAccountChanged)
	if changed.Err != nil {
		return false, changed.Err
	}
	return changed.AccountInfosChanged, nil
}
