package tools

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/google/jsonschema-go/jsonschema"
)

type props map[string]*jsonschema.Schema

func object(required []string, p props) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "object", Properties: p, Required: required}
}

func str(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: desc}
}

func integer(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "integer", Description: desc}
}

// nullableID is an update-time relation id; null clears the relation.
func nullableID(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Types: []string{"integer", "null"}, Description: desc + " (null to clear)"}
}

func number(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "number", Description: desc}
}

func boolean(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "boolean", Description: desc}
}

func enum(desc string, values ...string) *jsonschema.Schema {
	s := str(desc)
	for _, v := range values {
		s.Enum = append(s.Enum, v)
	}
	return s
}

func between(s *jsonschema.Schema, lo, hi float64) *jsonschema.Schema {
	s.Minimum = &lo
	s.Maximum = &hi
	return s
}

func atLeast(s *jsonschema.Schema, lo float64) *jsonschema.Schema {
	s.Minimum = &lo
	return s
}

func arrayOf(desc string, items *jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "array", Description: desc, Items: items}
}

func merge(sets ...props) props {
	out := props{}
	for _, p := range sets {
		maps.Copy(out, p)
	}
	return out
}

// Embed values per resource family.
var (
	partyEmbeds       = []string{"tags", "fields", "organisation", "missingImportantFields"}
	opportunityEmbeds = []string{"tags", "fields", "party", "milestone", "missingImportantFields"}
	projectEmbeds     = []string{"tags", "fields", "party", "opportunity", "missingImportantFields"}
	taskEmbeds        = []string{"tags", "fields"}
)

// embedProp accepts one embed name or a list of them.
func embedProp(values []string) props {
	return props{"embed": {
		Description: "Additional data to include in response",
		OneOf: []*jsonschema.Schema{
			enum("", values...),
			arrayOf("", enum("", values...)),
		},
	}}
}

func pageProps() props {
	return props{
		"page":    atLeast(integer("Page number (default: 1)"), 1),
		"perPage": between(integer("Number of results per page (1-100, default: 50)"), 1, 100),
	}
}

func sinceProp(noun string) props {
	return props{"since": str("ISO8601 date to filter " + noun + " changed after this date")}
}

// listSchema is the schema of the plain list tools.
func listSchema(noun string, embeds []string) *jsonschema.Schema {
	p := merge(pageProps(), sinceProp(noun))
	if embeds != nil {
		p = merge(p, embedProp(embeds))
	}
	return object(nil, p)
}

func idSchema(key, desc string, embeds []string) *jsonschema.Schema {
	p := props{key: integer(desc)}
	if embeds != nil {
		p = merge(p, embedProp(embeds))
	}
	return object([]string{key}, p)
}

func pagedByIDSchema(key, desc string, embeds []string) *jsonschema.Schema {
	return object([]string{key}, merge(props{key: integer(desc)}, pageProps(), embedProp(embeds)))
}

func searchSchema(embeds []string) *jsonschema.Schema {
	p := merge(props{"query": str("Search query")}, pageProps())
	if embeds != nil {
		p = merge(p, embedProp(embeds))
	}
	return object([]string{"query"}, p)
}

func multiIDSchema(key, desc string, embeds []string) *jsonschema.Schema {
	one := 1
	ids := arrayOf(desc, integer(""))
	ids.MinItems = &one
	return object([]string{key}, merge(props{key: ids}, embedProp(embeds)))
}

// Collection item schemas. With update set, items may carry id and _delete.
func itemSchema(update bool, required []string, p props) *jsonschema.Schema {
	if update {
		p = merge(p, props{
			"id":      integer("ID of an existing entry to update"),
			"_delete": boolean("Set to true to delete the entry with this id"),
		})
		required = nil
	}
	return object(required, p)
}

func emailItems(update bool) *jsonschema.Schema {
	return arrayOf("Email addresses", itemSchema(update, []string{"address"}, props{
		"type":    str("Email type (Work, Home, etc.)"),
		"address": str("Email address"),
	}))
}

func phoneItems(update bool) *jsonschema.Schema {
	return arrayOf("Phone numbers", itemSchema(update, []string{"number"}, props{
		"type":   str("Phone type (Work, Home, Mobile, etc.)"),
		"number": str("Phone number"),
	}))
}

func addressItems(update bool) *jsonschema.Schema {
	return arrayOf("Postal addresses", itemSchema(update, nil, props{
		"type":    str("Address type (Work, Home, etc.)"),
		"street":  str("Street address"),
		"city":    str("City"),
		"state":   str("State or province"),
		"zip":     str("ZIP or postal code"),
		"country": str("Country"),
	}))
}

func websiteItems(update bool) *jsonschema.Schema {
	return arrayOf("Websites and social media", itemSchema(update, []string{"address", "service"}, props{
		"type":    str("Website type (Work, Home, etc.)"),
		"address": str("Website URL or username"),
		"service": enum("Service type", "URL", "TWITTER", "LINKEDIN", "FACEBOOK"),
	}))
}

func tagItems(update bool) *jsonschema.Schema {
	return arrayOf("Tags (reference by id or name)", itemSchema(update, nil, props{
		"id":   integer("Tag ID"),
		"name": str("Tag name"),
	}))
}

func fieldItems(update bool) *jsonschema.Schema {
	definition := &jsonschema.Schema{
		Description: "Field definition id or object",
		OneOf: []*jsonschema.Schema{
			integer("Field definition ID"),
			object(nil, props{
				"id":   integer("Field definition ID"),
				"name": str("Field definition name"),
				"tag":  {Types: []string{"integer", "null"}, Description: "Tag ID if the field belongs to a DataTag"},
			}),
		},
	}
	required := []string{"definition", "value"}
	return arrayOf("Custom field values", itemSchema(update, required, props{
		"definition": definition,
		"value":      {Description: "Field value"},
	}))
}

func trackItems() *jsonschema.Schema {
	return arrayOf("Tracks to apply", object([]string{"definition"}, props{
		"definition": {
			Description: "Track definition id or object",
			OneOf: []*jsonschema.Schema{
				integer("Track definition ID"),
				object([]string{"id"}, props{"id": integer("")}),
			},
		},
	}))
}

// resolve prepares a schema for validation. Tool schemas are static, so a
// failure is a programming error.
func resolve(s *jsonschema.Schema) *jsonschema.Resolved {
	r, err := s.Resolve(nil)
	if err != nil {
		panic(fmt.Sprintf("resolve schema: %v", err))
	}
	return r
}

// toMap converts a schema into the map form used in tool listings.
func toMap(s *jsonschema.Schema) map[string]any {
	data, err := json.Marshal(s)
	if err != nil {
		panic(fmt.Sprintf("marshal schema: %v", err))
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		panic(fmt.Sprintf("unmarshal schema: %v", err))
	}
	return m
}
