//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"
)

// BuildApp wires the demo components using Google Wire.
func BuildApp(ctx context.Context, flags Flags) (*App, func(), error) {
	wire.Build(
		provideConfig,
		provideLogger,
		provideHub,
		provideClock,
		provideRepository,
		provideService,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
