// Package platform defines the host services a context-menu image saver
// depends on and ships in-process implementations of them.
//
// A browser provides three services: lifecycle and click events, a
// context-menu registry, and a download manager. The interfaces here model
// exactly the calls that are made on them so the menu and pipeline packages
// can be driven by the command-line front end or by fakes in tests.
//
// # In-process host
//
//	host := platform.NewHost()
//	menus := platform.NewMenuRegistry()
//	downloads := platform.NewFileDownloads(dir, platform.WithHistory(db))
//
//	registrar.Register(host)
//	host.Install(ctx)                 // builds the menu, seeds defaults
//	host.Click(ctx, model.ClickInfo{}) // runs the click handlers
package platform
