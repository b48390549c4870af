package output

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, row{ID: 1, Title: "Atlas"}))
	assert.JSONEq(t, `{"id":1,"title":"Atlas"}`, buf.String())
	assert.Contains(t, buf.String(), "\n  \"id\"")
}

func TestJSONPath(t *testing.T) {
	rows := []row{{1, "Atlas"}, {2, "Brújula"}}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"titles", "$[*].title", `["Atlas","Brújula"]`},
		{"filter", "$[?(@.id == 2)].title", `["Brújula"]`},
		{"no match", "$[*].missing", `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, JSONPath(&buf, rows, tt.path))
			assert.JSONEq(t, tt.want, buf.String())
		})
	}
}

func TestJSONPath_InvalidExpression(t *testing.T) {
	var buf bytes.Buffer
	err := JSONPath(&buf, []row{}, "$[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid jsonpath")
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	w := Table(&buf)
	fmt.Fprintln(w, "ID\tTITLE")
	fmt.Fprintln(w, "12\tAtlas")
	require.NoError(t, w.Flush())
	assert.Equal(t, "ID  TITLE\n12  Atlas\n", buf.String())
}

func TestWarn(t *testing.T) {
	var buf bytes.Buffer
	Warn(&buf, "ignoring %s", ".env")
	assert.Equal(t, "Warning: ignoring .env\n", buf.String())
}
