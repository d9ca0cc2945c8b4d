package schema

// Reusable fragments.
var (
	answerList = map[string]any{
		"oneOf": []any{
			map[string]any{"type": "string"},
			map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			map[string]any{"type": "null"},
		},
	}

	// metric accepts numbers, numeric strings and null.
	metric = map[string]any{"type": []any{"number", "string", "null"}}

	levelNumber = map[string]any{"type": "integer", "minimum": 1, "maximum": 9}

	snapshot = map[string]any{
		"type":     "object",
		"required": []any{"answer_en"},
		"properties": map[string]any{
			"answer_en":             map[string]any{"type": "string"},
			"allowed_variants":      answerList,
			"allowed_variants_text": map[string]any{"type": "string"},
			"near_misses":           answerList,
			"near_misses_text":      map[string]any{"type": "string"},
			"concept_key":           map[string]any{"type": "string"},
			"level":                 map[string]any{"type": "integer"},
		},
	}

	submissions = map[string]any{
		"type":     "array",
		"minItems": 1,
		"items": map[string]any{
			"type":     "object",
			"required": []any{"item_id", "user_answer"},
			"properties": map[string]any{
				"item_id":     map[string]any{"type": "string", "minLength": 1},
				"user_answer": map[string]any{"type": "string"},
				"latency_ms":  map[string]any{"type": "integer", "minimum": 0},
			},
		},
	}

	stats = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"recent_session_id":       map[string]any{"type": []any{"string", "null"}},
			"recent_attempts":         metric,
			"recent_correct_attempts": metric,
			"recent_correct_rate":     metric,
			"total_attempts":          metric,
			"stable_concept_count":    metric,
			"stable_concept_ratio":    metric,
			"low_box_concept_count":   metric,
		},
	}
)

// Grade is a single answer with its answer key.
var Grade = &Schema{
	Name: "grade",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"user_answer", "answer_en"},
		"properties": map[string]any{
			"user_answer":      map[string]any{"type": "string"},
			"answer_en":        map[string]any{"type": "string"},
			"allowed_variants": answerList,
			"near_misses":      answerList,
		},
	},
}

// Batch is a set of submissions with the session's item snapshots.
var Batch = &Schema{
	Name: "batch",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"items", "snapshots"},
		"properties": map[string]any{
			"items": submissions,
			"snapshots": map[string]any{
				"type":                 "object",
				"additionalProperties": snapshot,
			},
		},
	},
}

// Attempts is a set of answers for a stored session.
var Attempts = &Schema{
	Name: "attempts",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"items"},
		"properties": map[string]any{
			"items": submissions,
		},
	},
}

// Promotion is a statistics snapshot with the policy to evaluate it against.
var Promotion = &Schema{
	Name: "promotion",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"current_level", "stats", "policy"},
		"properties": map[string]any{
			"current_level": levelNumber,
			"stats":         stats,
			"policy": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"level":               map[string]any{"type": "integer"},
					"min_total_attempts":  metric,
					"min_correct_rate":    metric,
					"min_box_level_ratio": metric,
				},
			},
		},
	},
}

// Adjustment is a statistics snapshot with an adjustment condition.
var Adjustment = &Schema{
	Name: "adjustment",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"current_level", "stats", "condition"},
		"properties": map[string]any{
			"current_level": levelNumber,
			"stats":         stats,
			"condition": map[string]any{
				"type":     "object",
				"required": []any{"recent_correct_rate_below", "low_box_concepts_over"},
				"properties": map[string]any{
					"recent_correct_rate_below": map[string]any{"type": "number", "minimum": 0},
					"low_box_concepts_over":     map[string]any{"type": "integer", "minimum": 0},
				},
			},
			"level_mix": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "number", "minimum": 0},
			},
		},
	},
}

// Deck is a list of practice items for the drill.
var Deck = &Schema{
	Name: "deck",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"items"},
		"properties": map[string]any{
			"title": map[string]any{"type": "string"},
			"items": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"allOf": []any{
						snapshot,
						map[string]any{
							"type":     "object",
							"required": []any{"id", "prompt"},
							"properties": map[string]any{
								"id":     map[string]any{"type": "string", "minLength": 1},
								"prompt": map[string]any{"type": "string", "minLength": 1},
							},
						},
					},
				},
			},
		},
	},
}
