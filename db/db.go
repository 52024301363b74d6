package db

import "embed"

// Migrations holds the schema for every dialect under migrations/<dialect>/.
//
//go:embed migrations
var Migrations embed.FS
