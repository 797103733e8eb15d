// Package watch re-resolves a set of plugin identifiers when the dependency
// tree changes.
//
// The watcher observes the working directory, its parent (where sibling
// plugins live), and the dependency root down to package directories.
// Bursts of events are debounced into a single pass. An optional cron
// schedule forces periodic passes for changes fsnotify cannot see, such as a
// global module directory on another mount.
//
// Each pass resolves everything afresh; only the previous pass's
// found/strategy/path summary is kept to decide what to report.
//
//	w, err := watch.New(loader, []string{"eslint-plugin"}, watch.Options{
//		Debounce: 250 * time.Millisecond,
//		Schedule: "*/5 * * * *",
//		OnReport: func(r plugins.Report) { fmt.Println(r.Identifier, r.Found) },
//	})
//	if err != nil {
//		return err
//	}
//	defer w.Close()
//	return w.Run(ctx)
package watch
