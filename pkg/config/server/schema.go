package server

import (
	"github.com/invopop/jsonschema"
)

// NewSchemaReflector returns the reflector used for the config file schema.
// Only fields tagged jsonschema:"required" are required.
func NewSchemaReflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
	}
}

// ReflectSchema reflects the server config file with r.
func ReflectSchema(r *jsonschema.Reflector) *jsonschema.Schema {
	schema := r.Reflect(&VideoMCPServerConfig{})
	schema.Title = "genai-video-mcp server config"
	schema.Description = "Configuration file for the genai-video-mcp server (kind " + KindVideoMCPServerConfig +
		", schemaVersion " + SchemaVersion + ")."

	return schema
}

// JSONSchema describes the server config file.
func JSONSchema() *jsonschema.Schema {
	return ReflectSchema(NewSchemaReflector())
}
