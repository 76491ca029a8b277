package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/ourohead/ourohead/pkg/client"
	"github.com/ourohead/ourohead/pkg/definition"
	"github.com/ourohead/ourohead/pkg/editor"
	"github.com/ourohead/ourohead/pkg/mockdata"
	"github.com/ourohead/ourohead/pkg/store/file"
)

// source is where commands read and write the definition: a file with
// --file, otherwise the editor API.
type source interface {
	Load(ctx context.Context) (*definition.APIDefinition, error)
	// Save stores def and returns a message for the user.
	Save(ctx context.Context, def *definition.APIDefinition) (string, error)
	// Preview generates dummy data for ep. Data is nil when there is
	// nothing to preview.
	Preview(ctx context.Context, ep *definition.Endpoint) (*client.PreviewResult, error)
	String() string
}

func currentSource() source {
	if definitionFile != "" {
		return &fileSource{path: definitionFile, gen: mockdata.New()}
	}
	return &remoteSource{c: client.New(editorURL)}
}

type fileSource struct {
	path string
	gen  *mockdata.Generator
}

func (s *fileSource) Load(context.Context) (*definition.APIDefinition, error) {
	def, err := file.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &definition.APIDefinition{Endpoints: []definition.Endpoint{}}, nil
	}
	return def, err
}

func (s *fileSource) Save(_ context.Context, def *definition.APIDefinition) (string, error) {
	def.Normalize()
	if err := def.Validate(); err != nil {
		return "", err
	}
	if err := file.WriteFile(s.path, def); err != nil {
		return "", fmt.Errorf("write %s: %w", s.path, err)
	}
	return "Saved " + s.path, nil
}

func (s *fileSource) Preview(_ context.Context, ep *definition.Endpoint) (*client.PreviewResult, error) {
	sr := ep.PreviewResponse()
	if sr == nil || sr.Response == nil {
		return &client.PreviewResult{Message: editor.MsgNoResponse}, nil
	}
	data, err := s.gen.Generate(sr.Response)
	if err != nil {
		return nil, err
	}
	raw, err := jsonRaw(data)
	if err != nil {
		return nil, err
	}
	return &client.PreviewResult{Message: editor.MsgPreviewGenerated, Data: raw}, nil
}

func (s *fileSource) String() string { return s.path }

type remoteSource struct {
	c *client.Client
}

func (s *remoteSource) Load(ctx context.Context) (*definition.APIDefinition, error) {
	return s.c.GetDefinition(ctx)
}

func (s *remoteSource) Save(ctx context.Context, def *definition.APIDefinition) (string, error) {
	return s.c.SaveDefinition(ctx, def)
}

func (s *remoteSource) Preview(ctx context.Context, ep *definition.Endpoint) (*client.PreviewResult, error) {
	return s.c.Preview(ctx, ep)
}

func (s *remoteSource) String() string { return s.c.BaseURL() }
