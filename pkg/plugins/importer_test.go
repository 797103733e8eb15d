package plugins

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileImporterCandidates(t *testing.T) {
	f := newFixture(t)
	importer := NewFileImporter()

	t.Run("known extension", func(t *testing.T) {
		path := f.path("mod.json")
		got := importer.Candidates(path)
		require.NotEmpty(t, got)
		assert.Equal(t, path, got[0])
		assert.Equal(t, path+".json", got[1])
		assert.Len(t, got, 1+len(DefaultExtensions))
	})

	t.Run("foreign extension is swapped", func(t *testing.T) {
		path := f.path("dist/index.js")
		got := importer.Candidates(path)
		require.Len(t, got, 2*len(DefaultExtensions))
		assert.Equal(t, path+".json", got[0])
		assert.Equal(t, f.path("dist/index.json"), got[len(DefaultExtensions)])
		assert.Equal(t, f.path("dist/index.so"), got[len(got)-1])
	})

	t.Run("directory adds index files", func(t *testing.T) {
		dir := f.mkdir("pkg")
		got := importer.Candidates(dir)
		require.Len(t, got, 2*len(DefaultExtensions))
		assert.Equal(t, dir+".json", got[0])
		assert.Equal(t, filepath.Join(dir, "index.json"), got[len(DefaultExtensions)])
	})
}

func TestFileImporterDecoders(t *testing.T) {
	f := newFixture(t)
	files := map[string]string{
		"mods/json.json": `{"default": {"name": "json"}}`,
		"mods/yaml.yaml": "default:\n  name: yaml\n",
		"mods/yml.yml":   "default:\n  name: yml\n",
		"mods/toml.toml": "[default]\nname = \"toml\"\n",
		"mods/hcl.hcl":   "default = {\n  name = \"hcl\"\n}\n",
	}
	for rel, content := range files {
		f.write(rel, content)
	}

	importer := NewFileImporter()
	for _, name := range []string{"json", "yaml", "yml", "toml", "hcl"} {
		t.Run(name, func(t *testing.T) {
			module, err := importer.Import(context.Background(), f.path("mods/"+name))
			require.NoError(t, err)

			plugin, ok := ExtractPlugin(module, name)
			require.True(t, ok)
			assert.Equal(t, name, PluginName(plugin))
		})
	}
}

func TestFileImporterErrors(t *testing.T) {
	f := newFixture(t)
	importer := NewFileImporter()

	t.Run("not found", func(t *testing.T) {
		_, err := importer.Import(context.Background(), f.path("missing"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unsupported format", func(t *testing.T) {
		path := f.write("mods/data.json", `{}`)
		restricted := &FileImporter{
			Extensions: []string{".json"},
			Decoders:   map[string]Decoder{".yaml": decodeYAML},
		}
		_, err := restricted.Import(context.Background(), path)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := f.write("mods/broken.json", `{"default": `)
		_, err := importer.Import(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load")
	})

	t.Run("hcl expressions need literals", func(t *testing.T) {
		path := f.write("mods/expr.hcl", "default = var.plugin\n")
		_, err := importer.Import(context.Background(), path)
		require.Error(t, err)
	})

	t.Run("garbage shared object", func(t *testing.T) {
		path := f.write("mods/garbage.so", "not an ELF file")
		_, err := importer.Import(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open plugin")
	})
}

func TestDefaultImporterRouting(t *testing.T) {
	f := newFixture(t)
	register(t, "routed", Module{"name": "from-registry"})
	f.write("project/routed.json", `{"name": "from-file"}`)

	importer := NewDefaultImporter()

	module, err := importer.Import(context.Background(), "routed")
	require.NoError(t, err)
	assert.Equal(t, "from-registry", module["name"])

	module, err = importer.Import(context.Background(), f.path("project/routed"))
	require.NoError(t, err)
	assert.Equal(t, "from-file", module["name"])

	_, err = importer.Import(context.Background(), "@scope/unregistered")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileExists(t *testing.T) {
	f := newFixture(t)
	env := f.env.withDefaults()
	f.write("pkg/src/index.yaml", "name: src\n")
	f.write("sibling/index.json", `{"name": "sibling"}`)
	f.mkdir("empty")

	assert.True(t, FileExists(env, f.path("pkg/src/index")))
	assert.True(t, FileExists(env, f.path("pkg/src/index.js")), "foreign extension swaps to a decodable one")
	assert.True(t, FileExists(env, f.path("sibling")), "directories resolve to their index file")
	assert.False(t, FileExists(env, f.path("empty")))
	assert.False(t, FileExists(env, f.path("nothing")))
}
