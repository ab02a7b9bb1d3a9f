// SPDX-License-Identifier: EPL-2.0

package main

import (
	"github.com/ik5/audgrain/grain"
	"github.com/ik5/audgrain/internal/config"
	"github.com/ik5/audgrain/internal/log"
)

type paramSetter interface {
	SetParams(grain.Params)
}

// watchParams forwards the params section of every reload to dst. Engine
// settings only apply at startup, so changes to them are reported and
// otherwise ignored.
func watchParams(path string, engine config.Engine, dst paramSetter, done <-chan struct{}) error {
	configs := make(chan *config.Config)
	errs := make(chan error)

	if err := config.Watch(path, configs, errs, done); err != nil {
		return err
	}

	go func() {
		for {
			select {
			case c := <-configs:
				if c.Engine != engine {
					log.Warn("engine settings change on restart", "path", path)
				}

				dst.SetParams(c.Params)
				log.Info("params reloaded", "path", path)
			case err := <-errs:
				log.Warn("config reload failed", "error", err)
			case <-done:
				return
			}
		}
	}()

	return nil
}
