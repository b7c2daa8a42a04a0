// Package reload keeps the active logging configuration in step with the
// document on disk.
//
// A Watcher observes the configuration file through fsnotify and calls
// Reconfigure on its target after each burst of changes settles:
//
//	w := reload.NewWatcher(facade, configPath, logDir, 0)
//	if err := w.Start(ctx); err != nil {
//	    return err
//	}
//	defer w.Stop()
//
// A reload that fails leaves the previous configuration active and is
// reported as a warning through the target.
package reload
