package inspector_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/luabind/inspector"
	"github.com/viant/luabind/inspector/cxx"
	"github.com/viant/luabind/inspector/graph"
	"github.com/viant/luabind/inspector/resource"
	"go.uber.org/zap/zaptest"
)

func TestFactory_GetInspector(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantErr  bool
		native   bool
	}{
		{name: "header", filename: "frame.hpp", native: true},
		{name: "upper case source", filename: "Frame.CPP", native: true},
		{name: "c header", filename: "frame.h", native: true},
		{name: "schema", filename: "types.yaml"},
		{name: "short schema", filename: "types.yml"},
		{name: "unsupported", filename: "main.go", wantErr: true},
	}

	factory := inspector.NewFactory(graph.NewProject("test"), nil, zaptest.NewLogger(t).Sugar())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insp, err := factory.GetInspector(tt.filename)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, inspector.ErrUnsupportedSource))
				return
			}
			require.NoError(t, err)
			if tt.native {
				assert.IsType(t, &cxx.Inspector{}, insp)
			} else {
				assert.IsType(t, &resource.Inspector{}, insp)
			}
		})
	}
}

func TestFactory_InspectPaths(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"include/frame.hpp": `namespace kestrel {
struct [[clang::annotate("lua/symbol:Frame")]] frame {
    [[clang::annotate("lua/symbol:show")]] void show();
};
}
`,
		"schema/types.yaml": "types:\n  - code: desc\n    name: Description\n",
		"README.md":         "ignored",
	}
	for name, content := range files {
		location := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(location), 0755))
		require.NoError(t, os.WriteFile(location, []byte(content), 0644))
	}

	project := graph.NewProject("test")
	factory := inspector.NewFactory(project, &inspector.Config{MasterTag: "lua"}, zaptest.NewLogger(t).Sugar())
	require.NoError(t, factory.InspectPaths(context.Background(), []string{root}))

	assert.NotNil(t, project.Definition("kestrel::frame"))
	assert.NotNil(t, project.Definition("kestrel::frame::show"))
	assert.NotNil(t, project.Definition("desc"))
	assert.Len(t, project.Files, 2)
}
