package analysis

// analysisSchema validates the analysis document before it is persisted.
// A response that parses as JSON but misses required keys is treated the
// same as unparseable output.
const analysisSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["summary", "strengths", "weaknesses", "recommendations", "pricing_advice", "health_score"],
	"properties": {
		"summary": {"type": "string", "minLength": 1},
		"strengths": {"type": "array", "items": {"type": "string"}},
		"weaknesses": {"type": "array", "items": {"type": "string"}},
		"recommendations": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["title", "description", "priority"],
				"properties": {
					"title": {"type": "string"},
					"description": {"type": "string"},
					"priority": {"type": "string", "enum": ["high", "medium", "low"]}
				}
			}
		},
		"pricing_advice": {"type": "string"},
		"health_score": {
			"type": "object",
			"required": ["total", "category"],
			"properties": {
				"total": {"type": "number", "minimum": 0, "maximum": 100},
				"category": {"type": "string", "enum": ["excellent", "good", "medium", "critical"]}
			}
		}
	}
}`
