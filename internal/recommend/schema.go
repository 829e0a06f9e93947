package recommend

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// OutputSchema is the declarative output contract handed to the provider for
// schema-guided generation. Definitions are reflected once at process start
// and never mutated afterwards.
type OutputSchema struct {
	Name        string
	Description string
	Definition  map[string]interface{}
}

// recommendationPayload is the wire shape for every item-producing mode. The
// provider must return an object root, so the item sequence is wrapped.
type recommendationPayload struct {
	Recommendations []RecommendationItem `json:"recommendations"`
}

// analysisPayload is the wire shape for the watch-pattern analysis mode.
// Pointer fields let the fallback layer distinguish an omitted field from a
// zero value when the provider violates the contract.
type analysisPayload struct {
	Explanation   *string       `json:"explanation"`
	MoodWeight    *float64      `json:"moodWeight"`
	HistoryWeight *float64      `json:"historyWeight"`
	ContentMix    *[]GenreShare `json:"contentMix"`
}

var (
	recommendationSchema = OutputSchema{
		Name:        "RecommendationList",
		Description: "Ordered content recommendations JSON",
		Definition:  generateSchema[recommendationPayload](),
	}
	analysisSchema = OutputSchema{
		Name:        "WatchPatternAnalysis",
		Description: "Watch pattern analysis JSON",
		Definition:  generateSchema[analysisPayload](),
	}
)

// OutputSchemaFor returns the output schema a mode declares. The four
// recommendation modes share one shape; analysis has its own.
func OutputSchemaFor(mode Mode) OutputSchema {
	if mode == ModeAnalysis {
		return analysisSchema
	}
	return recommendationSchema
}

func generateSchema[T any]() map[string]interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)
	schemaObj, err := schemaToMap(schema)
	if err != nil {
		panic(err)
	}
	ensureStrictCompliance(schemaObj)
	return schemaObj
}

func schemaToMap(schema *jsonschema.Schema) (map[string]interface{}, error) {
	b, err := schema.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

const (
	propertiesKey           = "properties"
	additionalPropertiesKey = "additionalProperties"
	typeKey                 = "type"
	requiredKey             = "required"
	itemsKey                = "items"
)

// ensureStrictCompliance rewrites a reflected schema into the shape OpenAI
// strict mode demands: every object forbids additional properties and lists
// all of its properties as required.
func ensureStrictCompliance(schema map[string]interface{}) {
	if schemaType, ok := schema[typeKey].(string); ok && schemaType == "object" {
		schema[additionalPropertiesKey] = false

		if properties, ok := schema[propertiesKey].(map[string]interface{}); ok {
			var requiredFields []string
			for propName := range properties {
				requiredFields = append(requiredFields, propName)
			}
			if len(requiredFields) > 0 {
				schema[requiredKey] = requiredFields
			}
		}
	}

	if properties, ok := schema[propertiesKey].(map[string]interface{}); ok {
		for _, prop := range properties {
			if propMap, ok := prop.(map[string]interface{}); ok {
				ensureStrictCompliance(propMap)
			}
		}
	}

	if items, ok := schema[itemsKey].(map[string]interface{}); ok {
		ensureStrictCompliance(items)
	}

	if additionalProps, ok := schema[additionalPropertiesKey].(map[string]interface{}); ok {
		ensureStrictCompliance(additionalProps)
	}
}
