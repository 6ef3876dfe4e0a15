// Package gamedata ships the read-only move and species tables the engine is tested and run against.
// Callers with their own tables can hand any fs.FS with the same file names to engine.LoadDex.
package gamedata

import "embed"

//go:embed *.json
var FS embed.FS
