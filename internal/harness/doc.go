// Package harness drives a to-do list web application through a real browser and asserts on
// its rendered DOM.
//
// The application is a black box reached only through its entry URL and the selector contract
// in selectors.go. A Session owns one headless Chrome instance (chromedp) and carries the test
// case context, so every helper is bounded by the configured timeouts:
//
//	config, err := common.LoadFromFiles("todo-e2e.toml")
//	if err != nil { ... }
//	fixture, err := harness.NewFixture(config)
//	if err != nil { ... }
//	s, err := harness.NewSession(ctx, fixture)
//	if err != nil { ... }
//	defer s.Close()
//
//	require.NoError(t, s.OpenApp())
//	require.NoError(t, s.AddItem("Learn Testing"))
//	items, err := s.VerifyCount(1)
//	require.NoError(t, err)
//	require.NoError(t, items.First().ContainText("Learn Testing"))
//
// Failures are returned as *PageNotReadyError, *ElementNotFoundError or *AssertionError and
// are never retried beyond the polling window.
package harness
