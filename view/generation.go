package view

// GenerationOptions documents the config fields the generator understands.
// The service itself treats the config as opaque; this type only backs the
// schema endpoint so editor clients can validate input up front.
type GenerationOptions struct {
	ProjectName string            `json:"projectName,omitempty" jsonschema:"title=Project name,description=Name of the generated project archive"`
	GroupId     string            `json:"groupId,omitempty" jsonschema:"title=Group id"`
	ArtifactId  string            `json:"artifactId,omitempty" jsonschema:"title=Artifact id"`
	Version     string            `json:"version,omitempty" jsonschema:"title=Project version"`
	Properties  map[string]string `json:"properties,omitempty" jsonschema:"title=Additional generator properties"`
}
