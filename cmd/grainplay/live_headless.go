// SPDX-License-Identifier: EPL-2.0

//go:build headless

package main

import (
	"context"
	"errors"

	"github.com/ik5/audgrain/audio"
	"github.com/ik5/audgrain/internal/config"
)

var errNoDevice = errors.New("built without audio output, use -out")

func runLive(context.Context, *config.Config, options, audio.Asset) error {
	return errNoDevice
}
