package swagger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type document struct {
	Info struct {
		Title   string `json:"title"`
		Version string `json:"version"`
	} `json:"info"`
	Paths       map[string]map[string]operation `json:"paths"`
	Definitions map[string]json.RawMessage      `json:"definitions"`
}

type operation struct {
	Summary   string `json:"summary"`
	Responses map[string]struct {
		Schema struct {
			Ref string `json:"$ref"`
		} `json:"schema"`
	} `json:"responses"`
}

// annotatedRoute is what the handler comments declare for one endpoint.
type annotatedRoute struct {
	path      string
	method    string
	summary   string
	responses map[string]string
}

var (
	responseLine = regexp.MustCompile(`^// @(?:Success|Failure) (\d{3}) \{object\} (\S+)`)
	routerLine   = regexp.MustCompile(`^// @Router (\S+) \[(\w+)\]`)
	summaryLine  = regexp.MustCompile(`^// @Summary (.+)$`)
	refPattern   = regexp.MustCompile(`"#/definitions/([^"]+)"`)
)

func readAnnotations(t *testing.T) []annotatedRoute {
	t.Helper()

	files, err := filepath.Glob("../../internal/features/*/handler/*_handler.go")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	var routes []annotatedRoute
	for _, name := range files {
		f, err := os.Open(name)
		require.NoError(t, err)

		current := annotatedRoute{responses: map[string]string{}}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if m := summaryLine.FindStringSubmatch(line); m != nil {
				current.summary = m[1]
			}
			if m := responseLine.FindStringSubmatch(line); m != nil {
				ref := m[2]
				if !strings.Contains(ref, ".") {
					ref = "handler." + ref
				}
				current.responses[m[1]] = ref
			}
			if m := routerLine.FindStringSubmatch(line); m != nil {
				current.path, current.method = m[1], m[2]
				routes = append(routes, current)
				current = annotatedRoute{responses: map[string]string{}}
			}
		}
		require.NoError(t, scanner.Err())
		f.Close()
	}
	return routes
}

// TestDoc_MatchesHandlerAnnotations verifies every annotated route, summary and
// response schema is present in the registered document.
func TestDoc_MatchesHandlerAnnotations(t *testing.T) {
	var doc document
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))

	assert.Equal(t, "Bookstore Checkout API", doc.Info.Title)
	assert.Equal(t, "1.0", doc.Info.Version)

	routes := readAnnotations(t)
	require.Len(t, routes, 4)

	documented := 0
	for _, ops := range doc.Paths {
		documented += len(ops)
	}
	assert.Equal(t, len(routes), documented)

	for _, r := range routes {
		op, ok := doc.Paths[r.path][r.method]
		require.True(t, ok, "%s %s is not documented", r.method, r.path)
		assert.Equal(t, r.summary, op.Summary, r.path)

		require.Len(t, op.Responses, len(r.responses), r.path)
		for code, ref := range r.responses {
			assert.Equal(t, "#/definitions/"+ref, op.Responses[code].Schema.Ref, "%s %s %s", r.method, r.path, code)
		}
	}
}

// TestDoc_ReferencesResolve verifies every $ref points at a defined schema.
func TestDoc_ReferencesResolve(t *testing.T) {
	raw := SwaggerInfo.ReadDoc()

	var doc document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	for _, m := range refPattern.FindAllStringSubmatch(raw, -1) {
		assert.Contains(t, doc.Definitions, m[1])
	}
}
