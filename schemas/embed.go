// Package schemas holds the JSON Schemas for the artifacts the CLI produces.
package schemas

import _ "embed"

// StorySchemaFile is the repository-relative path of the story pack schema.
const StorySchemaFile = "schemas/story.schema.json"

// Story is the story pack schema, embedded so the binary validates without a checkout.
//
//go:embed story.schema.json
var Story []byte
