package naming

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSub(t *testing.T) {
	root := New("temporal")

	tests := map[string]struct {
		got  Name
		want string
	}{
		"root":       {got: root, want: "temporal"},
		"child":      {got: root.Sub("server"), want: "temporal-server"},
		"grandchild": {got: root.Sub("a").Sub("b"), want: strings.Join([]string{"temporal", "a", "b"}, Separator)},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.got.String())
		})
	}
}

func TestSubDoesNotChangeParent(t *testing.T) {
	root := New("temporal")
	_ = root.Sub("ui")
	assert.Equal(t, "temporal", root.String())
}

func TestMarshalJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Name Name `json:"name"`
	}{Name: New("temporal").Sub("ui")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"temporal-ui"}`, string(b))
}
