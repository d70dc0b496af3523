package starter

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/starter/internal/configstore"
	"github.com/nibzard/starter/internal/template"
)

// graphSource builds templates whose include lists are given by graph.
func graphSource(t *testing.T, graph map[string]string) []template.Source {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, include := range graph {
		writeFile(t, fs, "/t/"+name+"/"+name+".txt", name)
		if include != "" {
			writeFile(t, fs, "/t/"+name+"/.starter.ini", "[templates]\ninclude = "+include+"\n")
		}
	}
	return []template.Source{{Label: "mem", Fs: fs, Dir: "/t"}}
}

func TestResolveOrder(t *testing.T) {
	tests := []struct {
		name      string
		graph     map[string]string
		requested []string
		want      []string
	}{
		{
			name:      "single",
			graph:     map[string]string{"a": ""},
			requested: []string{"a"},
			want:      []string{"a"},
		},
		{
			name:      "dependency first",
			graph:     map[string]string{"john": "custom", "custom": ""},
			requested: []string{"john"},
			want:      []string{"custom", "john"},
		},
		{
			name:      "declared order kept",
			graph:     map[string]string{"app": "b, a ,c", "a": "", "b": "", "c": ""},
			requested: []string{"app"},
			want:      []string{"b", "a", "c", "app"},
		},
		{
			name:      "shared dependency once",
			graph:     map[string]string{"a": "b,c", "b": "c", "c": ""},
			requested: []string{"a", "c"},
			want:      []string{"c", "b", "a"},
		},
		{
			name:      "requested dependency moves before dependent",
			graph:     map[string]string{"a": "b", "b": ""},
			requested: []string{"a", "b"},
			want:      []string{"b", "a"},
		},
		{
			name:      "cycle terminates",
			graph:     map[string]string{"x": "y", "y": "x"},
			requested: []string{"x"},
			want:      []string{"y", "x"},
		},
		{
			name:      "self include",
			graph:     map[string]string{"self": "self"},
			requested: []string{"self"},
			want:      []string{"self"},
		},
		{
			name:      "duplicate include entries",
			graph:     map[string]string{"a": "b,b,,b", "b": ""},
			requested: []string{"a"},
			want:      []string{"b", "a"},
		},
		{
			name:      "deep chain",
			graph:     map[string]string{"a": "b", "b": "c", "c": "d", "d": ""},
			requested: []string{"a"},
			want:      []string{"d", "c", "b", "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sources := graphSource(t, tt.graph)
			store := configstore.New(nil)

			got, err := Resolve(tt.requested, template.Lookup{Sources: sources}, store, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))

			seen := map[string]bool{}
			for _, tpl := range got {
				assert.False(t, seen[tpl.ID()], "template %s resolved twice", tpl.Name)
				seen[tpl.ID()] = true
			}
		})
	}
}

func TestResolvePopsInclude(t *testing.T) {
	sources := graphSource(t, map[string]string{"john": "custom", "custom": ""})
	store := configstore.New(nil)

	_, err := Resolve([]string{"john"}, template.Lookup{Sources: sources}, store, nil)
	require.NoError(t, err)
	assert.False(t, store.Has(template.SettingsSection, template.IncludeKey))
}

func TestResolveMergesWithoutOverwrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/t/john/.starter.ini", "name = john\n[templates]\ninclude = custom\n")
	writeFile(t, fs, "/t/custom/.starter.ini", "name = custom\nextra = yes\n")
	sources := []template.Source{{Fs: fs, Dir: "/t"}}

	store := configstore.New(nil)
	_, err := Resolve([]string{"john"}, template.Lookup{Sources: sources}, store, nil)
	require.NoError(t, err)

	name, _ := store.Raw(configstore.DefaultSection, "name")
	extra, _ := store.Raw(configstore.DefaultSection, "extra")
	assert.Equal(t, "john", name, "the first template read keeps its value")
	assert.Equal(t, "yes", extra)
}

func TestResolveFailsFast(t *testing.T) {
	sources := graphSource(t, map[string]string{"a": ""})
	store := configstore.New(nil)

	_, err := Resolve([]string{"a", "missing"}, template.Lookup{Sources: sources}, store, nil)
	require.ErrorIs(t, err, template.ErrNotFound)
	assert.Empty(t, store.Keys(configstore.DefaultSection), "no config is read when a name is missing")
}

func TestResolveDottedInclude(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/t/python/django/manage.py", "")
	writeFile(t, fs, "/t/site/.starter.ini", "[templates]\ninclude = python.django\n")
	sources := []template.Source{{Fs: fs, Dir: "/t"}}

	got, err := Resolve([]string{"site"}, template.Lookup{Sources: sources}, configstore.New(nil), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"python.django", "site"}, names(got))
}
