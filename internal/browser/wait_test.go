package browser_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ticketbooker/internal/browser"
	"ticketbooker/internal/browser/browsertest"

	"github.com/stretchr/testify/require"
)

const (
	testTimeout  = 50 * time.Millisecond
	testInterval = time.Millisecond
)

func TestPoll(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := browser.Poll(ctx, time.Second, testInterval, func(ctx context.Context) (bool, error) {
		calls++
		return calls == 3, nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)

	err = browser.Poll(ctx, testTimeout, testInterval, func(ctx context.Context) (bool, error) {
		return false, nil
	})
	require.ErrorIs(t, err, browser.ErrTimeout)

	broken := errors.New("broken")
	err = browser.Poll(ctx, time.Second, testInterval, func(ctx context.Context) (bool, error) {
		return false, broken
	})
	require.ErrorIs(t, err, broken)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err = browser.Poll(cancelled, time.Second, testInterval, func(ctx context.Context) (bool, error) {
		return false, nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestFind(t *testing.T) {
	ctx := context.Background()
	session := browsertest.NewSession("https://example.com")
	button := browsertest.NewElement("login", "Sign in")
	session.Set(browser.XPath("//button"), button)

	found, err := browser.Find(ctx, session, browser.XPath("//button"), testTimeout, testInterval)
	require.NoError(t, err)
	require.Same(t, button, found)

	_, err = browser.Find(ctx, session, browser.XPath("//missing"), testTimeout, testInterval)
	require.ErrorIs(t, err, browser.ErrNotFound)

	all, err := browser.FindAll(ctx, session, browser.XPath("//missing"), testTimeout, testInterval)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestWaitURLChange(t *testing.T) {
	ctx := context.Background()
	session := browsertest.NewSession("https://example.com/a")

	changed, err := browser.WaitURLChange(ctx, session, "https://example.com/a", testTimeout, testInterval)
	require.NoError(t, err)
	require.False(t, changed)

	session.SetURL("https://example.com/b")
	changed, err = browser.WaitURLChange(ctx, session, "https://example.com/a", testTimeout, testInterval)
	require.NoError(t, err)
	require.True(t, changed)
}
