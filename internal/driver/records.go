package driver

import (
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// The store hands back boxed values (int64 for every integer, dbtype.Node
// for nodes). These helpers normalize them into plain Go types at the
// boundary so nothing boxed leaks into business logic.

// NodeProps returns the property map of the node bound to key in rec.
func NodeProps(rec *neo4j.Record, key string) (map[string]interface{}, bool) {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return nil, false
	}
	switch n := v.(type) {
	case dbtype.Node:
		return n.Props, true
	case map[string]interface{}:
		return n, true
	}
	return nil, false
}

func RecordInt(rec *neo4j.Record, key string) int {
	v, ok := rec.Get(key)
	if !ok {
		return 0
	}
	return toInt(v)
}

func RecordString(rec *neo4j.Record, key string) string {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func RecordFloat(rec *neo4j.Record, key string) float64 {
	v, ok := rec.Get(key)
	if !ok {
		return 0
	}
	return toFloat(v)
}

func PropString(props map[string]interface{}, key string) string {
	s, _ := props[key].(string)
	return s
}

func PropInt(props map[string]interface{}, key string) int {
	return toInt(props[key])
}

func PropFloat(props map[string]interface{}, key string) float64 {
	return toFloat(props[key])
}

// PropBool returns def when the property is unset, so flags like
// visibilityStatus can default to true.
func PropBool(props map[string]interface{}, key string, def bool) bool {
	v, ok := props[key]
	if !ok || v == nil {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

func PropTime(props map[string]interface{}, key string) time.Time {
	switch t := props[key].(type) {
	case time.Time:
		return t
	case dbtype.LocalDateTime:
		return t.Time()
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}
