// Package web holds the assets compiled into the server binary.
package web

import "embed"

// FS serves /static. The gomponents views live under src/ as Go code and
// need no embedding.
//
//go:embed static/*
var FS embed.FS
