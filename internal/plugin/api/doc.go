// Package api provides the Lua modules page scripts run against.
//
// Each module implements Module and is installed by a Registry as a global
// of its own name. require("pagetree") returns all of them together:
//
//	page.insert(5, " there")
//	local n = page.node_at(3)
//	page.split(n, 3, 3)
//	print(util.join(util.lines(page.text()), "|"))
//	print(config.get("engine.newline"))
//
// The page module edits through a PageProvider, normally an *app.Store, so
// every script edit is a dispatched action with the store's logging,
// validation and subscribers. Edit failures raise Lua errors carrying the
// store's error text.
package api
