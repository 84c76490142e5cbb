package handler

import (
	"context"
	"strings"

	"ticketbooker/internal/browser"
	"ticketbooker/internal/components/telemetry"
	"ticketbooker/internal/intent"
	"ticketbooker/internal/sites"
)

const report_login_check = "handler.login-check"

var (
	loginSuccessWords = []string{"logout", "profile", "account", "dashboard", "ออกจากระบบ", "โปรไฟล์"}
	loginErrorWords   = []string{"error", "invalid", "incorrect", "failed", "ผิดพลาด", "ไม่ถูกต้อง"}
)

// LoginResult is what a login smoke test observed.
type LoginResult struct {
	DryRun      bool
	ButtonFound bool
	URLChanged  bool
	// SuccessWords and ErrorWords are the indicator words found in the page
	// body after submitting, they are informational only.
	SuccessWords []string
	ErrorWords   []string
}

// Passed is true when the login button was found and, unless this was a dry
// run, the url changed after submitting.
func (r LoginResult) Passed() bool {
	if !r.ButtonFound {
		return false
	}
	return r.DryRun || r.URLChanged
}

// CheckLogin opens the site and logs in with the user's credentials. With
// dryRun it stops once the login button is on the page.
func CheckLogin(ctx context.Context, site sites.Site, session browser.Session, user intent.UserIntent, opts Options, tel telemetry.API, dryRun bool) (LoginResult, error) {
	result := LoginResult{DryRun: dryRun}

	h, err := New(site, session, user, opts, tel)
	if err != nil {
		return result, err
	}
	err = h.Setup(ctx)
	if err != nil {
		return result, err
	}

	button, ok := site.Selector("login_button")
	if !ok {
		return result, nil
	}
	_, err = browser.Find(ctx, session, button, opts.ElementTimeout, opts.PollInterval)
	if err != nil {
		tel.ReportWarning(report_login_check, "login button not found", "selector", button.String(), "err", err)
		return result, nil
	}
	result.ButtonFound = true
	if dryRun {
		return result, nil
	}

	start, err := session.CurrentURL(ctx)
	if err != nil {
		return result, err
	}
	h.Login(ctx)
	result.URLChanged, err = browser.WaitURLChange(ctx, session, start, opts.NavigationTimeout, opts.PollInterval)
	if err != nil {
		return result, err
	}

	body := strings.ToLower(pageText(ctx, session))
	result.SuccessWords = wordsIn(body, loginSuccessWords)
	result.ErrorWords = wordsIn(body, loginErrorWords)
	return result, nil
}

func pageText(ctx context.Context, session browser.Session) string {
	elements, err := session.FindAll(ctx, browser.XPath("//body"))
	if err != nil || len(elements) == 0 {
		return ""
	}
	text, err := elements[0].Text(ctx)
	if err != nil {
		return ""
	}
	return text
}

func wordsIn(text string, words []string) []string {
	var found []string
	for _, w := range words {
		if strings.Contains(text, w) {
			found = append(found, w)
		}
	}
	return found
}
