package playlist

import (
	"github.com/bilisonic/bilisonic/source"
	"github.com/invopop/jsonschema"
)

// Schema describes the playlist file format.
func Schema() *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.DoNotReference = true

	schema := reflector.Reflect([]*source.Track{})
	schema.Title = "bilisonic playlist"
	schema.Description = "A list of Bilibili videos played in order."
	return schema
}
