package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

type ChromeOptions struct {
	Headless  bool
	UserAgent string
	// ExecPath overrides the chrome binary chromedp looks for.
	ExecPath string
	Width    int
	Height   int
}

// Chrome is a Session backed by a local chrome instance driven over the
// devtools protocol.
type Chrome struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func NewChrome(ctx context.Context, opts ChromeOptions) (*Chrome, error) {
	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		width, height = 1920, 1080
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(width, height),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	cancel := func() {
		browserCancel()
		allocCancel()
	}

	// the first Run starts the browser
	err := chromedp.Run(browserCtx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("start chrome: %w", err)
	}

	return &Chrome{ctx: browserCtx, cancel: cancel}, nil
}

// Close shuts the browser down.
func (c *Chrome) Close() {
	c.cancel()
}

// run executes actions in the browser's context while still honoring the
// deadline and cancellation of the caller's context.
func (c *Chrome) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(c.ctx)
	defer cancel()
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		defer cancelDeadline()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func (c *Chrome) Navigate(ctx context.Context, url string) error {
	return c.run(ctx, chromedp.Navigate(url))
}

func (c *Chrome) CurrentURL(ctx context.Context) (string, error) {
	var url string
	err := c.run(ctx, chromedp.Location(&url))
	return url, err
}

// Screenshot captures the whole page as a png.
func (c *Chrome) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	err := c.run(ctx, chromedp.FullScreenshot(&buf, 100))
	return buf, err
}

func chromeQuery(sel Selector) (string, chromedp.QueryOption, error) {
	if sel.By == ByCSS {
		return sel.Value, chromedp.ByQueryAll, nil
	}
	xpath, ok := sel.XPathQuery()
	if !ok {
		return "", nil, fmt.Errorf("unsupported selector %s", sel)
	}
	return xpath, chromedp.BySearch, nil
}

func (c *Chrome) FindAll(ctx context.Context, sel Selector) ([]Element, error) {
	query, by, err := chromeQuery(sel)
	if err != nil {
		return nil, err
	}

	var nodes []*cdp.Node
	err = c.run(ctx, chromedp.Nodes(query, &nodes, by, chromedp.AtLeast(0)))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", sel, err)
	}

	elements := make([]Element, len(nodes))
	for i, n := range nodes {
		elements[i] = chromeElement{chrome: c, node: n}
	}
	return elements, nil
}

type chromeElement struct {
	chrome *Chrome
	node   *cdp.Node
}

func (e chromeElement) ids() []cdp.NodeID {
	return []cdp.NodeID{e.node.NodeID}
}

// Click dispatches a real mouse click, elements without a box model (image
// map areas, zero-sized links) fall back to a DOM click.
func (e chromeElement) Click(ctx context.Context) error {
	err := e.chrome.run(ctx, chromedp.Click(e.ids(), chromedp.ByNodeID, chromedp.NodeReady))
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return err
	}
	return e.chrome.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		obj, err := dom.ResolveNode().WithNodeID(e.node.NodeID).Do(ctx)
		if err != nil {
			return err
		}
		_, exception, err := runtime.CallFunctionOn(`function() { this.click(); }`).
			WithObjectID(obj.ObjectID).
			Do(ctx)
		if err != nil {
			return err
		}
		if exception != nil {
			return fmt.Errorf("click %s: %s", e.node.NodeName, exception.Text)
		}
		return nil
	}))
}

func (e chromeElement) SendKeys(ctx context.Context, text string) error {
	return e.chrome.run(ctx, chromedp.SendKeys(e.ids(), text, chromedp.ByNodeID))
}

func (e chromeElement) Clear(ctx context.Context) error {
	return e.chrome.run(ctx, chromedp.Clear(e.ids(), chromedp.ByNodeID))
}

func (e chromeElement) Submit(ctx context.Context) error {
	return e.chrome.run(ctx, chromedp.Submit(e.ids(), chromedp.ByNodeID))
}

func (e chromeElement) Text(ctx context.Context) (string, error) {
	var text string
	err := e.chrome.run(ctx, chromedp.JavascriptAttribute(e.ids(), "innerText", &text, chromedp.ByNodeID))
	return text, err
}

func (e chromeElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	var value string
	var ok bool
	err := e.chrome.run(ctx, chromedp.AttributeValue(e.ids(), name, &value, &ok, chromedp.ByNodeID))
	return value, ok, err
}
