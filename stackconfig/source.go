package stackconfig

import (
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Source is a key-value settings store. Missing keys read as the zero value.
//
// Pulumi's *config.Config satisfies Source as is.
type Source interface {
	Get(key string) string
	GetInt(key string) int
	GetBool(key string) bool
}

// Map is an in-memory Source.
type Map map[string]string

func (m Map) Get(key string) string {
	return m[key]
}

func (m Map) GetInt(key string) int {
	v, err := strconv.Atoi(m[key])
	if err != nil {
		return 0
	}
	return v
}

func (m Map) GetBool(key string) bool {
	v, err := strconv.ParseBool(m[key])
	if err != nil {
		return false
	}
	return v
}

type viperSource struct {
	v *viper.Viper
}

// Viper adapts v to a Source.
func Viper(v *viper.Viper) Source {
	return viperSource{v: v}
}

// Get reads a list value, as written in a YAML or JSON settings file, as its
// comma separated form.
func (s viperSource) Get(key string) string {
	switch s.v.Get(key).(type) {
	case []interface{}, []string:
		return strings.Join(s.v.GetStringSlice(key), ",")
	}
	return s.v.GetString(key)
}

func (s viperSource) GetInt(key string) int {
	return s.v.GetInt(key)
}

func (s viperSource) GetBool(key string) bool {
	return s.v.GetBool(key)
}

// splitList splits a comma separated value, dropping blank items.
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
