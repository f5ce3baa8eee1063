package manager

import (
	"fmt"

	"github.com/google/uuid"
)

// Node construction helpers. Each returns a complete canvas node mapping
// ready for Manager.AddNode: generated 13-char id when none is given, the
// "custom" renderer type, and the left-to-right handle orientation the
// canvas expects.

// StartVariable describes one user input collected by a start node.
type StartVariable struct {
	Variable    string
	Label       string
	Type        string // text-input, paragraph, select
	Required    bool
	Default     string
	Placeholder string
	MaxLength   int
	Options     []string
}

// EndOutput maps an output variable to the upstream value it exposes.
type EndOutput struct {
	Variable      string
	ValueSelector []string
}

// TemplateVariable binds a template placeholder to an upstream value.
type TemplateVariable struct {
	Variable      string
	ValueSelector []string
}

// PromptMessage is one entry of an LLM prompt template.
type PromptMessage struct {
	Role string
	Text string
}

// LLMConfig configures the model block of an LLM node.
type LLMConfig struct {
	Provider    string
	Model       string
	Mode        string // chat or completion
	Temperature float64
	MaxTokens   int
}

// NewStartNode builds a start node with the given input variables.
func NewStartNode(id, title string, x, y float64, variables []StartVariable) map[string]interface{} {
	if title == "" {
		title = "開始"
	}

	vars := make([]interface{}, 0, len(variables))
	for _, v := range variables {
		varType := v.Type
		if varType == "" {
			varType = "text-input"
		}
		options := make([]interface{}, 0, len(v.Options))
		for _, option := range v.Options {
			options = append(options, option)
		}
		entry := map[string]interface{}{
			"variable":    v.Variable,
			"label":       v.Label,
			"type":        varType,
			"required":    v.Required,
			"default":     v.Default,
			"placeholder": v.Placeholder,
			"options":     options,
		}
		if v.MaxLength > 0 {
			entry["max_length"] = v.MaxLength
		}
		vars = append(vars, entry)
	}

	return buildNode(id, x, y, map[string]interface{}{
		"type":      "start",
		"title":     title,
		"variables": vars,
	})
}

// NewEndNode builds an end node exposing the given outputs.
func NewEndNode(id, title string, x, y float64, outputs []EndOutput) map[string]interface{} {
	if title == "" {
		title = "終了"
	}

	outs := make([]interface{}, 0, len(outputs))
	for _, output := range outputs {
		outs = append(outs, map[string]interface{}{
			"variable":       output.Variable,
			"value_selector": toSelector(output.ValueSelector),
		})
	}

	return buildNode(id, x, y, map[string]interface{}{
		"type":    "end",
		"title":   title,
		"outputs": outs,
	})
}

// NewAnswerNode builds an answer node for advanced-chat apps. The answer
// template may embed variable references.
func NewAnswerNode(id, title string, x, y float64, answer string) map[string]interface{} {
	if title == "" {
		title = "直接応答"
	}

	return buildNode(id, x, y, map[string]interface{}{
		"type":   "answer",
		"title":  title,
		"answer": answer,
	})
}

// NewLLMNode builds an LLM node from the model configuration and prompt
// template. The provider is expanded to the marketplace plugin identifier
// format the platform stores.
func NewLLMNode(id, title string, x, y float64, cfg LLMConfig, prompts []PromptMessage) map[string]interface{} {
	if title == "" {
		title = "LLM"
	}
	mode := cfg.Mode
	if mode == "" {
		mode = "chat"
	}

	completionParams := map[string]interface{}{
		"temperature": cfg.Temperature,
	}
	if cfg.MaxTokens > 0 {
		completionParams["max_tokens"] = cfg.MaxTokens
	}

	promptTemplate := make([]interface{}, 0, len(prompts))
	for _, prompt := range prompts {
		entry := map[string]interface{}{
			"role": prompt.Role,
			"text": prompt.Text,
		}
		if prompt.Role == "system" {
			entry["edition_type"] = "basic"
		}
		promptTemplate = append(promptTemplate, entry)
	}

	return buildNode(id, x, y, map[string]interface{}{
		"type":  "llm",
		"title": title,
		"model": map[string]interface{}{
			"provider":          fmt.Sprintf("langgenius/%s/%s", cfg.Provider, cfg.Provider),
			"name":              cfg.Model,
			"mode":              mode,
			"completion_params": completionParams,
		},
		"prompt_template": promptTemplate,
		"context":         map[string]interface{}{"enabled": false},
		"vision":          map[string]interface{}{"enabled": false},
		"prompt_config":   map[string]interface{}{"jinja2_variables": []interface{}{}},
	})
}

// NewTemplateTransformNode builds a template-transform node rendering the
// given Jinja2 template over the bound variables.
func NewTemplateTransformNode(id, title string, x, y float64, template string, variables []TemplateVariable) map[string]interface{} {
	if title == "" {
		title = "テンプレート変換"
	}

	vars := make([]interface{}, 0, len(variables))
	for _, v := range variables {
		vars = append(vars, map[string]interface{}{
			"variable":       v.Variable,
			"value_selector": toSelector(v.ValueSelector),
		})
	}

	return buildNode(id, x, y, map[string]interface{}{
		"type":      "template-transform",
		"title":     title,
		"template":  template,
		"variables": vars,
	})
}

func buildNode(id string, x, y float64, data map[string]interface{}) map[string]interface{} {
	if id == "" {
		id = uuid.NewString()[:13]
	}
	return map[string]interface{}{
		"id":   id,
		"data": data,
		"position": map[string]interface{}{
			"x": x,
			"y": y,
		},
		"type":           "custom",
		"sourcePosition": "right",
		"targetPosition": "left",
	}
}

func toSelector(selector []string) []interface{} {
	out := make([]interface{}, 0, len(selector))
	for _, segment := range selector {
		out = append(out, segment)
	}
	return out
}
