// Package schemas embeds the JSON Schemas for InternRadar's file formats.
package schemas

import "embed"

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS

// Schema file names
const (
	ProfileFile         = "profile.schema.json"
	ListingsFile        = "listings.schema.json"
	RecommendationsFile = "recommendations.schema.json"
)

// Files lists every embedded schema.
func Files() []string {
	return []string{ProfileFile, ListingsFile, RecommendationsFile}
}
