package specfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"friday/internal/domain"
)

// Document formats
const (
	FormatOpenAPI = "openapi"
	FormatSwagger = "swagger"
)

// Summary describes a spec document as seen locally
type Summary struct {
	Format      string
	SpecVersion string
	Title       string
	APIVersion  string
	Servers     []string
	Paths       []string
	Operations  int
}

// InspectorOptions configures an Inspector
type InspectorOptions struct {
	// Validate runs kin-openapi document validation after loading
	Validate bool
}

// Inspector loads spec documents with kin-openapi
type Inspector struct {
	options InspectorOptions
}

// NewInspector creates a new Inspector
func NewInspector(options InspectorOptions) *Inspector {
	return &Inspector{options: options}
}

type versionProbe struct {
	OpenAPI string `yaml:"openapi"`
	Swagger string `yaml:"swagger"`
}

// Inspect reads and summarises the spec document
func (i *Inspector) Inspect(ctx context.Context, file domain.SpecFile) (*Summary, error) {
	if file == nil {
		return nil, errors.New("spec inspect: file is nil")
	}
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("spec inspect: open %s: %w", file.Name(), err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("spec inspect: read %s: %w", file.Name(), err)
	}
	return i.InspectData(ctx, raw)
}

// InspectData summarises a raw JSON or YAML document
func (i *Inspector) InspectData(ctx context.Context, raw []byte) (*Summary, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, errors.New("spec inspect: document is empty")
	}

	var probe versionProbe
	if err := yaml.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("spec inspect: parse document: %w", err)
	}

	var (
		doc     *openapi3.T
		summary = &Summary{}
		err     error
	)
	switch {
	case probe.OpenAPI != "":
		summary.Format = FormatOpenAPI
		summary.SpecVersion = probe.OpenAPI
		loader := openapi3.NewLoader()
		loader.Context = ctx
		loader.IsExternalRefsAllowed = false
		doc, err = loader.LoadFromData(raw)
		if err != nil {
			return nil, fmt.Errorf("spec inspect: load document: %w", err)
		}
	case probe.Swagger != "":
		summary.Format = FormatSwagger
		summary.SpecVersion = probe.Swagger
		doc, err = loadSwagger(raw)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("spec inspect: document has neither an openapi nor a swagger version field")
	}

	if i.options.Validate {
		if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("spec inspect: validate: %w", err)
		}
	}

	if doc.Info != nil {
		summary.Title = doc.Info.Title
		summary.APIVersion = doc.Info.Version
	}
	for _, server := range doc.Servers {
		if server != nil && server.URL != "" {
			summary.Servers = append(summary.Servers, server.URL)
		}
	}
	if doc.Paths != nil {
		for path, item := range doc.Paths.Map() {
			summary.Paths = append(summary.Paths, path)
			if item != nil {
				summary.Operations += len(item.Operations())
			}
		}
	}
	sort.Strings(summary.Paths)

	return summary, nil
}

// loadSwagger converts a Swagger 2.0 document to OpenAPI 3
func loadSwagger(raw []byte) (*openapi3.T, error) {
	var tree any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("spec inspect: parse document: %w", err)
	}
	data, err := json.Marshal(stringKeys(tree))
	if err != nil {
		return nil, fmt.Errorf("spec inspect: encode document: %w", err)
	}

	var doc2 openapi2.T
	if err := json.Unmarshal(data, &doc2); err != nil {
		return nil, fmt.Errorf("spec inspect: load swagger document: %w", err)
	}
	doc, err := openapi2conv.ToV3(&doc2)
	if err != nil {
		return nil, fmt.Errorf("spec inspect: convert swagger document: %w", err)
	}
	return doc, nil
}

// stringKeys rewrites YAML maps with non-string keys (e.g. response codes) so
// the tree can be encoded as JSON.
func stringKeys(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		for k, val := range typed {
			typed[k] = stringKeys(val)
		}
		return typed
	case map[any]any:
		out := make(map[string]any, len(typed))
		for k, val := range typed {
			out[fmt.Sprint(k)] = stringKeys(val)
		}
		return out
	case []any:
		for idx, val := range typed {
			typed[idx] = stringKeys(val)
		}
		return typed
	default:
		return v
	}
}
