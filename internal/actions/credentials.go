package actions

import (
	"context"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/restyaboard/internal/logfields"
)

// AuthorizeURL is the OAuth page that issues an access token for siteURL.
func AuthorizeURL(siteURL string) string {
	site := strings.TrimRight(siteURL, "/")
	return fmt.Sprintf("%s/oauth/authorize?response_type=code&client_id=%s&scope=read%%20write&state=%s&redirect_uri=%s/apps/r_visualstudio/login.html",
		site, oauthClientID, oauthState, site)
}

// Authenticate asks for the site URL, points the user at the token page and stores the token.
func (a *Actions) Authenticate(ctx context.Context) Status {
	const cmd = "authenticate"

	site, ok := a.ui.Input(ctx, inputSite())
	if !ok || strings.TrimSpace(site) == "" {
		a.ui.Info(MsgEnterSiteURL)
		return a.finish(cmd, StatusCancelled)
	}
	if err := a.creds.SetSiteURL(ctx, site); err != nil {
		a.logger.Error("Storing site URL failed", logfields.Error(err))
		a.ui.Error(MsgAuthenticateFailed)
		return a.finish(cmd, StatusRequestFailed)
	}

	a.ui.Link("Authorize the viewer and copy your access token from", AuthorizeURL(a.creds.SiteURL()))
	token, ok := a.ui.Password(ctx, "Your Restya Access token")
	if !ok || token == "" {
		return a.finish(cmd, StatusCancelled)
	}
	if err := a.creds.SetToken(ctx, token); err != nil {
		a.logger.Error("Storing token failed", logfields.Error(err))
		a.ui.Error(MsgAuthenticateFailed)
		return a.finish(cmd, StatusRequestFailed)
	}

	a.refresh(ctx)
	return a.finish(cmd, StatusOK)
}

// SetCredentials prompts for URL and token directly and stores whichever were entered.
func (a *Actions) SetCredentials(ctx context.Context) Status {
	const cmd = "setCredentials"

	site, siteOK := a.ui.Input(ctx, inputSite())
	token, tokenOK := a.ui.Password(ctx, "Your Restyaboard API token")
	if !siteOK && !tokenOK {
		return a.finish(cmd, StatusCancelled)
	}
	if !siteOK {
		site = ""
	}
	if !tokenOK {
		token = ""
	}
	if err := a.creds.Set(ctx, site, token); err != nil {
		a.logger.Error("Storing credentials failed", logfields.Error(err))
		a.ui.Error(MsgSetCredsFailed)
		return a.finish(cmd, StatusRequestFailed)
	}
	return a.finish(cmd, StatusOK)
}

// ResetCredentials clears both stored values and refreshes the tree.
func (a *Actions) ResetCredentials(ctx context.Context) Status {
	const cmd = "resetCredentials"
	if err := a.creds.Reset(ctx); err != nil {
		a.logger.Error("Resetting credentials failed", logfields.Error(err))
		a.ui.Error("Error while resetting credentials")
		return a.finish(cmd, StatusRequestFailed)
	}
	a.ui.Info(MsgCredentialsReset)
	a.refresh(ctx)
	return a.finish(cmd, StatusOK)
}

// ShowInfo displays the stored site URL and the masked token.
func (a *Actions) ShowInfo(_ context.Context) Status {
	a.ui.Info(a.creds.Info())
	return a.finish("showInfo", StatusOK)
}
