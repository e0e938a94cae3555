// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the dashboard client runtime.
//
// It signs in through the server adapter and hands the session to the
// terminal renderer, either for a single print or a refreshing screen.
package client
