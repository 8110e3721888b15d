package controller

import (
	"net/http"

	"github.com/Netcracker/qubership-apihub-editor-session-service/view"
	"github.com/invopop/jsonschema"
)

type GenerationSchemaController interface {
	GetGenerationConfigSchema(w http.ResponseWriter, r *http.Request)
}

func NewGenerationSchemaController() GenerationSchemaController {
	reflector := jsonschema.Reflector{ExpandedStruct: true}
	return &generationSchemaControllerImpl{
		schema: reflector.Reflect(&view.GenerationOptions{}),
	}
}

type generationSchemaControllerImpl struct {
	schema *jsonschema.Schema
}

func (g *generationSchemaControllerImpl) GetGenerationConfigSchema(w http.ResponseWriter, r *http.Request) {
	respondWithJson(w, http.StatusOK, g.schema)
}
