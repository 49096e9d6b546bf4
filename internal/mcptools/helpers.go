package mcptools

import (
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"movilidad/domain/dataset"
)

// intArg extracts an integer argument, JSON numbers arrive as float64.
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// stringMap converts an object argument to answer strings
func stringMap(v interface{}) map[string]string {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return map[string]string{}
	}
	out := make(map[string]string, len(obj))
	for k, raw := range obj {
		switch x := raw.(type) {
		case string:
			out[k] = x
		case float64:
			out[k] = dataset.FormatFloat(x)
		case nil:
		default:
			out[k] = fmt.Sprint(x)
		}
	}
	return out
}

func floatMap(v interface{}) (map[string]float64, bool) {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, false
	}
	out := make(map[string]float64, len(obj))
	for k, raw := range obj {
		switch x := raw.(type) {
		case float64:
			out[k] = x
		case bool:
			if x {
				out[k] = 1
			} else {
				out[k] = 0
			}
		case string:
			f, err := strconv.ParseFloat(x, 64)
			if err != nil {
				return nil, false
			}
			out[k] = f
		default:
			return nil, false
		}
	}
	return out, true
}
