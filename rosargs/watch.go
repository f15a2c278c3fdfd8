/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package rosargs

import (
	"os"

	"github.com/fsnotify/fsnotify"

	"github.com/rclzenoh/rclzenoh/params"
)

// WatchParamsFile watches path for writes and re-parses it on every
// change, handing the freshly-parsed params.File to onChange. It is
// intentionally thin (spec.md's parameter-file Non-goal): no diffing,
// no partial-update events, just "the file changed, here is the new
// parsed form" — it is the caller's job to decide what to do with it.
// The returned stop function closes the underlying watcher.
func WatchParamsFile(path string, onChange func(params.File)) (stop func() error, err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				data, err := os.ReadFile(path)
				if err != nil {
					continue
				}
				doc, err := params.ParseYAML(data)
				if err != nil {
					continue
				}
				onChange(doc)
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			case <-done:
				return
			}
		}
	}()

	return func() error {
		close(done)
		return w.Close()
	}, nil
}
