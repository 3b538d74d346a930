package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// HasParam reports whether the request carries a non-nil value for key
func HasParam(req mcp.CallToolRequest, key string) bool {
	val, exists := req.Params.Arguments[key]
	return exists && val != nil
}

// GetStringParam safely extracts a string parameter from the request
func GetStringParam(req mcp.CallToolRequest, key string, required bool) (string, error) {
	val, exists := req.Params.Arguments[key]
	if !exists || val == nil {
		if required {
			return "", fmt.Errorf("missing required parameter: '%s'", key)
		}
		return "", nil
	}

	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("parameter '%s' must be a string", key)
	}

	return str, nil
}

// GetRequiredStringParam is a shorthand for GetStringParam with required=true
func GetRequiredStringParam(req mcp.CallToolRequest, key string) (string, error) {
	return GetStringParam(req, key, true)
}

// GetOptionalStringParam is a shorthand for GetStringParam with required=false
func GetOptionalStringParam(req mcp.CallToolRequest, key string) (string, error) {
	return GetStringParam(req, key, false)
}

// GetOptionalFloat64Param safely extracts an optional float64 parameter from the request
func GetOptionalFloat64Param(req mcp.CallToolRequest, key string) (float64, error) {
	val, exists := req.Params.Arguments[key]
	if !exists || val == nil {
		return 0, nil
	}

	f, ok := val.(float64)
	if !ok {
		return 0, fmt.Errorf("parameter '%s' must be a number", key)
	}

	return f, nil
}

// GetOptionalIntParam extracts an optional int parameter from a float64 in the request
func GetOptionalIntParam(req mcp.CallToolRequest, key string) (int, error) {
	f, err := GetOptionalFloat64Param(req, key)
	return int(f), err
}

// GetOptionalBoolParam safely extracts an optional bool parameter from the request
func GetOptionalBoolParam(req mcp.CallToolRequest, key string) (bool, error) {
	val, exists := req.Params.Arguments[key]
	if !exists || val == nil {
		return false, nil
	}

	b, ok := val.(bool)
	if !ok {
		return false, fmt.Errorf("parameter '%s' must be a boolean", key)
	}

	return b, nil
}

// GetStringListParam extracts a list of strings given either as a
// comma-separated string or as an array. Blank entries are dropped.
func GetStringListParam(req mcp.CallToolRequest, key string) ([]string, error) {
	switch val := req.Params.Arguments[key].(type) {
	case nil:
		return nil, nil
	case string:
		var out []string
		for _, item := range strings.Split(val, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out, nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("parameter '%s' must only contain strings", key)
			}
			out = append(out, str)
		}
		return out, nil
	}

	return nil, fmt.Errorf("parameter '%s' must be a comma-separated string or an array", key)
}

// GetVectorParam extracts a vector given either as a JSON string or an array of numbers
func GetVectorParam(req mcp.CallToolRequest, key string) ([]float32, error) {
	var vector []float32
	if err := decodeJSONParam(req, key, &vector); err != nil {
		return nil, err
	}

	return vector, nil
}

// GetVectorListParam extracts a list of vectors given either as a JSON string or a nested array
func GetVectorListParam(req mcp.CallToolRequest, key string) ([][]float32, error) {
	var vectors [][]float32
	if err := decodeJSONParam(req, key, &vectors); err != nil {
		return nil, err
	}

	return vectors, nil
}

// decodeJSONParam accepts either a JSON string or an already decoded value
func decodeJSONParam(req mcp.CallToolRequest, key string, target any) error {
	var buf []byte

	switch val := req.Params.Arguments[key].(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil
		}
		buf = []byte(val)
	default:
		var err error
		if buf, err = json.Marshal(val); err != nil {
			return fmt.Errorf("parameter '%s': %w", key, err)
		}
	}

	if err := json.Unmarshal(buf, target); err != nil {
		return fmt.Errorf("parameter '%s': %w", key, err)
	}

	return nil
}

// HandleParameterError returns a properly formatted error response for parameter validation errors
func HandleParameterError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}
