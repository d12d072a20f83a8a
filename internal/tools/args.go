package tools

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/RobinCoderZhao/capsule-mcp/pkg/capsule"
)

// embedList accepts either a single string or a list of strings.
type embedList []string

func (e *embedList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*e = embedList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("embed must be a string or a list of strings")
	}
	*e = many
	return nil
}

// paging holds the query arguments of search and nested list tools.
type paging struct {
	Page    int       `json:"page"`
	PerPage int       `json:"perPage"`
	Embed   embedList `json:"embed"`
}

func (p paging) options() capsule.Options {
	return capsule.Options{Page: p.Page, PerPage: p.PerPage, Embed: p.Embed}
}

// OptionsFromArgs turns a list tool's argument object into query options.
// Keys other than page, perPage, embed, since and q become filters.
func OptionsFromArgs(args map[string]any) capsule.Options {
	var opts capsule.Options
	for key, val := range args {
		switch key {
		case "page":
			opts.Page = toInt(val)
		case "perPage":
			opts.PerPage = toInt(val)
		case "embed":
			opts.Embed = toStrings(val)
		case "since":
			opts.Since, _ = val.(string)
		case "q":
			opts.Query, _ = val.(string)
		default:
			if val == nil {
				continue
			}
			if opts.Filters == nil {
				opts.Filters = map[string]any{}
			}
			opts.Filters[key] = val
		}
	}
	return opts
}

func toInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(math.Round(n))
	case int:
		return n
	case int64:
		return int(n)
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	}
	return 0
}

func toStrings(v any) []string {
	switch x := v.(type) {
	case string:
		return []string{x}
	case []string:
		return x
	case []any:
		out := make([]string, 0, len(x))
		for _, s := range x {
			if str, ok := s.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}
