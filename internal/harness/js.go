package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// jsVisibleFn mirrors what a user can see: rendered, not hidden by style and with a box.
const jsVisibleFn = `function visible(el) {
	if (!el || !el.isConnected) return false;
	for (let n = el; n && n.nodeType === 1; n = n.parentElement) {
		const st = window.getComputedStyle(n);
		if (st.display === 'none' || st.opacity === '0') return false;
	}
	const st = window.getComputedStyle(el);
	if (st.visibility === 'hidden' || st.visibility === 'collapse') return false;
	const r = el.getBoundingClientRect();
	return r.width > 0 && r.height > 0;
}`

// Probes return what the page currently shows. They never throw for a missing element.
const (
	jsCountProbe = `(sel) => document.querySelectorAll(sel).length`

	jsCountIsPredicate = `(sel, n) => document.querySelectorAll(sel).length === n`

	jsTextProbe = `(sel) => {
	const el = document.querySelector(sel);
	return el ? el.textContent : null;
}`

	jsTextsProbe = `(sel) => Array.from(document.querySelectorAll(sel), (el) => el.textContent)`

	jsClassesProbe = `(sel) => Array.from(document.querySelectorAll(sel), (el) => Array.from(el.classList))`

	jsValueProbe = `(sel) => {
	const el = document.querySelector(sel);
	return el ? el.value : null;
}`

	jsAttrProbe = `(sel, name) => {
	const el = document.querySelector(sel);
	return el ? el.getAttribute(name) : null;
}`

	jsFocusedProbe = `(sel) => {
	const el = document.activeElement;
	if (!el || el === document.body) return null;
	if (el.matches(sel)) return true;
	return el.tagName.toLowerCase() + (el.className ? '.' + String(el.className).trim().split(/\s+/).join('.') : '');
}`

	jsLocationProbe = `() => window.location.href`

	jsClearStorage = `() => {
	try { window.localStorage.clear(); window.sessionStorage.clear(); } catch (e) { return String(e); }
	return '';
}`

	jsReplaceURL = `(url) => { window.history.replaceState(null, '', url); return true; }`

	jsForceClick = `(sel) => {
	const all = Array.from(document.querySelectorAll(sel));
	if (all.length === 0) return false;
	const shown = all.find((el) => el.getClientRects().length > 0 && getComputedStyle(el).visibility !== 'hidden');
	(shown || all[0]).click();
	return true;
}`

	jsSelectAll = `(sel) => {
	const el = document.querySelector(sel);
	if (!el) return false;
	el.focus();
	if (typeof el.select === 'function') el.select();
	return true;
}`

	jsDispatchKeydown = `(sel, key) => {
	const el = document.querySelector(sel);
	if (!el) return false;
	const init = { key: key, bubbles: true, cancelable: true };
	el.dispatchEvent(new KeyboardEvent('keydown', init));
	el.dispatchEvent(new KeyboardEvent('keyup', init));
	return true;
}`

	jsDispatchHover = `(sel) => {
	const el = document.querySelector(sel);
	if (!el) return null;
	el.dispatchEvent(new MouseEvent('mouseover', { bubbles: true }));
	el.dispatchEvent(new MouseEvent('mouseenter', { bubbles: false }));
	const r = el.getBoundingClientRect();
	return { x: r.left + r.width / 2, y: r.top + r.height / 2 };
}`
)

// jsVisibilityProbe reports how many elements match and how many of them are visible.
var jsVisibilityProbe = `(sel) => {
	` + jsVisibleFn + `
	const all = Array.from(document.querySelectorAll(sel));
	return { total: all.length, visible: all.filter(visible).length };
}`

// jsCall renders fn applied to JSON-encoded args as a single expression.
func jsCall(fn string, args ...any) (string, error) {
	encoded := make([]string, len(args))
	for i, arg := range args {
		b, err := json.Marshal(arg)
		if err != nil {
			return "", fmt.Errorf("failed to encode argument %d: %w", i, err)
		}
		encoded[i] = string(b)
	}
	return fmt.Sprintf("(%s)(%s)", fn, strings.Join(encoded, ", ")), nil
}

// run executes actions with a deadline derived from the session context.
func (s *Session) run(timeout time.Duration, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

// call evaluates fn(args...) in the page and decodes the result into res (nil discards it).
func (s *Session) call(timeout time.Duration, fn string, res any, args ...any) error {
	expr, err := jsCall(fn, args...)
	if err != nil {
		return err
	}
	return s.run(timeout, chromedp.Evaluate(expr, res))
}
