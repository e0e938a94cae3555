// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"io"
	"time"
)

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run starts the client application and blocks until exit.
	Run(ctx context.Context) error
}

// Renderer shows the dashboard of the signed-in user.
type Renderer interface {
	Print(ctx context.Context, w io.Writer) error
	Watch(ctx context.Context, interval time.Duration) error
}
