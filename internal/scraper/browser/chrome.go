package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"golang-market-scryper/pkg/logger"
)

const (
	// navTimeout bounds full page loads.
	navTimeout = 30 * time.Second
	// attrTimeout bounds attribute lookups; a missing node is reported as
	// absent, not waited on indefinitely.
	attrTimeout = 5 * time.Second
)

// chromeActor drives a headless (or headed) Chrome session via chromedp.
type chromeActor struct {
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
	dialogs       chan struct{}
	log           *logger.Logger
}

// NewChrome launches a Chrome session and returns it as an Actor.
func NewChrome(headless bool, log *logger.Logger) (Actor, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.NoSandbox,
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	a := &chromeActor{
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		allocCancel:   allocCancel,
		dialogs:       make(chan struct{}, 4),
		log:           log,
	}

	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		if _, ok := ev.(*page.EventJavascriptDialogOpening); ok {
			select {
			case a.dialogs <- struct{}{}:
			default:
			}
		}
	})

	// Start the browser process eagerly so launch failures surface here.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start chrome: %w", err)
	}
	return a, nil
}

// boundedContext derives a run context from parent, capped by timeout and
// cancelled as soon as caller is done. chromedp requires its own context
// lineage, so the caller's ctx cannot be passed to it directly.
func boundedContext(parent, caller context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	var runCtx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(parent, timeout)
	} else {
		runCtx, cancel = context.WithCancel(parent)
	}
	stop := context.AfterFunc(caller, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

func (a *chromeActor) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := boundedContext(a.browserCtx, ctx, timeout)
	defer cancel()

	err := chromedp.Run(runCtx, actions...)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (a *chromeActor) Navigate(ctx context.Context, url string) error {
	return a.run(ctx, navTimeout, chromedp.Navigate(url))
}

func (a *chromeActor) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	return a.run(ctx, timeout, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

func (a *chromeActor) Click(ctx context.Context, selector string) error {
	return a.run(ctx, attrTimeout, chromedp.Click(selector, chromedp.ByQuery))
}

func (a *chromeActor) Evaluate(ctx context.Context, expression string) error {
	return a.run(ctx, attrTimeout, chromedp.Evaluate(expression, nil))
}

func (a *chromeActor) AttrValue(ctx context.Context, selector, attr string) (string, bool, error) {
	var value string
	var ok bool
	err := a.run(ctx, attrTimeout, chromedp.AttributeValue(selector, attr, &value, &ok, chromedp.ByQuery))
	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		if runErr := context.Cause(a.browserCtx); runErr != nil {
			return "", false, runErr
		}
		// A timeout here means the node never appeared; report absence.
		return "", false, nil
	}
	return value, ok, nil
}

func (a *chromeActor) PageSource(ctx context.Context) (string, error) {
	var html string
	if err := a.run(ctx, attrTimeout, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to read page source: %w", err)
	}
	return html, nil
}

func (a *chromeActor) DismissAlert(ctx context.Context, timeout time.Duration) error {
	select {
	case <-a.dialogs:
		a.log.Info("dismissing browser dialog")
		return a.run(ctx, attrTimeout, chromedp.ActionFunc(func(dialogCtx context.Context) error {
			return page.HandleJavaScriptDialog(false).Do(dialogCtx)
		}))
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(timeout):
		return nil
	}
}

func (a *chromeActor) Close() error {
	a.browserCancel()
	a.allocCancel()
	return nil
}
