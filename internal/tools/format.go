package tools

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/RobinCoderZhao/capsule-mcp/pkg/capsule"
)

// count returns the length of the array at key, 0 when missing.
func count(raw json.RawMessage, key string) int64 {
	return gjson.GetBytes(raw, key+".#").Int()
}

func field(raw json.RawMessage, path string) string {
	return gjson.GetBytes(raw, path).String()
}

// partyName renders a person as "first last" and an organisation by name.
func partyName(raw json.RawMessage, key string) string {
	party := gjson.GetBytes(raw, key)
	if party.Get("type").String() == capsule.PartyPerson {
		return party.Get("firstName").String() + " " + party.Get("lastName").String()
	}
	return party.Get("name").String()
}

func found(raw json.RawMessage, key, noun string) string {
	return fmt.Sprintf("Found %d %s", count(raw, key), noun)
}

func matching(raw json.RawMessage, key, noun, query string) string {
	return fmt.Sprintf("Found %d %s matching \"%s\"", count(raw, key), noun, query)
}

// preview returns the first n characters of s.
func preview(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}
