package scenario

import "github.com/invopop/jsonschema"

// Schema describes the scenario file format for editors and CI checks.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := reflector.Reflect(new(Scenario))
	schema.Title = "SentryArena Scenario"
	schema.Description = "Arena bounds, obstacles, player and patrolling sentries"
	return schema
}
