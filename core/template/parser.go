// Package template - CloudFormation template parser
package template

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"cdk-cost/internal/errors"
)

// Parse decodes a CloudFormation template from UTF-8 text. JSON is tried
// first, then YAML. Sections other than Resources (Parameters, Outputs,
// Mappings, ...) are permitted and ignored.
func Parse(text string) (*Template, error) {
	raw, err := decode(text)
	if err != nil {
		return nil, err
	}

	resourcesRaw, ok := raw["Resources"]
	if !ok {
		return nil, errors.Parse("template has no Resources section", nil)
	}

	resourcesMap, ok := resourcesRaw.(map[string]interface{})
	if !ok {
		return nil, errors.Parse("Resources section is not a mapping", nil)
	}

	resources := make(map[string]Resource, len(resourcesMap))
	for logicalID, resRaw := range resourcesMap {
		resMap, ok := resRaw.(map[string]interface{})
		if !ok {
			return nil, errors.Newf(errors.TypeParse, "resource %q is not a mapping", logicalID)
		}

		resType, ok := resMap["Type"].(string)
		if !ok || resType == "" {
			return nil, errors.Newf(errors.TypeParse, "resource %q has no Type", logicalID)
		}

		properties := map[string]interface{}{}
		if propsRaw, ok := resMap["Properties"]; ok {
			props, ok := propsRaw.(map[string]interface{})
			if !ok {
				return nil, errors.Newf(errors.TypeParse, "resource %q Properties is not a mapping", logicalID)
			}
			properties = props
		}

		resources[logicalID] = Resource{
			Type:       resType,
			Properties: properties,
		}
	}

	return &Template{Resources: resources}, nil
}

// decode attempts JSON first and falls back to YAML. Both failing is a
// parse error carrying the JSON cause, which is usually the useful one.
func decode(text string) (map[string]interface{}, error) {
	var asJSON map[string]interface{}
	jsonErr := json.Unmarshal([]byte(text), &asJSON)
	if jsonErr == nil {
		return asJSON, nil
	}

	var asYAML map[string]interface{}
	if yamlErr := yaml.Unmarshal([]byte(text), &asYAML); yamlErr == nil && asYAML != nil {
		return normalizeYAML(asYAML).(map[string]interface{}), nil
	}

	return nil, errors.Parse("template is neither valid JSON nor YAML", jsonErr)
}

// normalizeYAML converts yaml.v3 decoded values into the same shapes the
// JSON decoder produces, so downstream comparison never sees mixed key or
// number representations.
func normalizeYAML(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, item := range v {
			out[key] = normalizeYAML(item)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, item := range v {
			out[fmt.Sprintf("%v", key)] = normalizeYAML(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = normalizeYAML(item)
		}
		return out
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return v
	}
}
