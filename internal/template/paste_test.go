package template

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/starter/internal/configstore"
	"github.com/nibzard/starter/internal/render"
)

func TestSubstitutePath(t *testing.T) {
	ctx := configstore.NewContext(configstore.Pair{Key: "USER", Value: "alice"})

	tests := []struct {
		in   string
		want string
	}{
		{"+USER+/config", "alice/config"},
		{"home/+USER+.txt", "home/alice.txt"},
		{"+MISSING+/file", "/file"},
		{"plain/path", "plain/path"},
		{"a+b", "a+b"},
	}
	for _, tt := range tests {
		if got := SubstitutePath(tt.in, ctx); got != tt.want {
			t.Errorf("SubstitutePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPasteSimpleCopy(t *testing.T) {
	src := memSource(t)
	tpl, err := Find("custom", []Source{src})
	require.NoError(t, err)

	dst := afero.NewMemMapFs()
	ctx := configstore.NewContext(
		configstore.Pair{Key: configstore.KeyDeployDir, Value: "/target"},
		configstore.Pair{Key: "customkey", Value: "customvalue"},
	)

	result, err := tpl.Paste(dst, ctx, PasteOptions{Engine: render.NewEngine()})
	require.NoError(t, err)
	assert.Equal(t, []string{"/target/dir/template", "/target/root_file"}, result.Written)
	assert.Same(t, tpl, result.Template)

	data, err := afero.ReadFile(dst, "/target/root_file")
	require.NoError(t, err)
	assert.Equal(t, "static content\n", string(data))

	data, err = afero.ReadFile(dst, "/target/dir/template")
	require.NoError(t, err)
	assert.Equal(t, "value=customvalue\n", string(data))

	exists, _ := afero.Exists(dst, "/target/dir/template.tmpl")
	assert.False(t, exists, "suffix must be stripped")
	exists, _ = afero.Exists(dst, "/target/.starter.ini")
	assert.False(t, exists, "template config must not be pasted")
}

func TestPasteStaticCopyIsByteIdentical(t *testing.T) {
	fs := afero.NewMemMapFs()
	payload := []byte{0x00, 0xff, '{', '{', ' ', 'x', ' ', '}', '}', '\n', 0x7f}
	require.NoError(t, afero.WriteFile(fs, "/t/bin/blob.dat", payload, 0o644))
	require.NoError(t, afero.WriteFile(fs, "/t/bin/nested/deep/file.txt", []byte("deep"), 0o644))

	tpl, err := Find("bin", []Source{{Fs: fs, Dir: "/t"}})
	require.NoError(t, err)

	dst := afero.NewMemMapFs()
	ctx := configstore.NewContext(configstore.Pair{Key: configstore.KeyDeployDir, Value: "/out"})
	_, err = tpl.Paste(dst, ctx, PasteOptions{Engine: render.NewEngine()})
	require.NoError(t, err)

	got, err := afero.ReadFile(dst, "/out/blob.dat")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	got, err = afero.ReadFile(dst, "/out/nested/deep/file.txt")
	require.NoError(t, err)
	assert.Equal(t, "deep", string(got))
}

func TestPastePathPlaceholders(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/t/home/+USER+/profile.tmpl", "user={{ USER }}")
	writeFile(t, fs, "/t/home/+UNSET+data", "x")

	tpl, err := Find("home", []Source{{Fs: fs, Dir: "/t"}})
	require.NoError(t, err)

	dst := afero.NewMemMapFs()
	ctx := configstore.NewContext(
		configstore.Pair{Key: configstore.KeyDeployDir, Value: "/out"},
		configstore.Pair{Key: "USER", Value: "alice"},
	)
	_, err = tpl.Paste(dst, ctx, PasteOptions{Engine: render.NewEngine()})
	require.NoError(t, err)

	data, err := afero.ReadFile(dst, "/out/alice/profile")
	require.NoError(t, err)
	assert.Equal(t, "user=alice", string(data))

	exists, _ := afero.Exists(dst, "/out/data")
	assert.True(t, exists, "unknown placeholders are replaced by the empty string")
}

func TestPasteCustomSuffix(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/t/j2/readme.md.j2", "# {{ title }}")
	writeFile(t, fs, "/t/j2/keep.tmpl", "{{ title }}")

	tpl, err := Find("j2", []Source{{Fs: fs, Dir: "/t"}})
	require.NoError(t, err)

	dst := afero.NewMemMapFs()
	ctx := configstore.NewContext(
		configstore.Pair{Key: configstore.KeyDeployDir, Value: "/out"},
		configstore.Pair{Key: "title", Value: "Hello"},
	)
	_, err = tpl.Paste(dst, ctx, PasteOptions{Suffix: ".j2", Engine: render.NewEngine()})
	require.NoError(t, err)

	data, _ := afero.ReadFile(dst, "/out/readme.md")
	assert.Equal(t, "# Hello", string(data))
	data, _ = afero.ReadFile(dst, "/out/keep.tmpl")
	assert.Equal(t, "{{ title }}", string(data))
}

func TestPastePreservesExecutableBit(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/t/scripts/run.sh", []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, afero.WriteFile(fs, "/t/scripts/setup.sh.tmpl", []byte("#!/bin/sh\n"), 0o700))
	require.NoError(t, afero.WriteFile(fs, "/t/scripts/readonly.txt", []byte("ro"), 0o444))

	tpl, err := Find("scripts", []Source{{Fs: fs, Dir: "/t"}})
	require.NoError(t, err)

	dst := afero.NewMemMapFs()
	ctx := configstore.NewContext(configstore.Pair{Key: configstore.KeyDeployDir, Value: "/out"})
	_, err = tpl.Paste(dst, ctx, PasteOptions{Engine: render.NewEngine()})
	require.NoError(t, err)

	for path, want := range map[string]uint32{
		"/out/run.sh":       0o755,
		"/out/setup.sh":     0o755,
		"/out/readonly.txt": 0o644,
	} {
		info, err := dst.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, want, uint32(info.Mode().Perm()), path)
	}
}

func TestPasteOverwritesExistingFiles(t *testing.T) {
	src := memSource(t)
	tpl, err := Find("custom", []Source{src})
	require.NoError(t, err)

	dst := afero.NewMemMapFs()
	writeFile(t, dst, "/target/root_file", "old content that is longer than the new one\n")

	ctx := configstore.NewContext(configstore.Pair{Key: configstore.KeyDeployDir, Value: "/target"})
	_, err = tpl.Paste(dst, ctx, PasteOptions{Engine: render.NewEngine()})
	require.NoError(t, err)

	data, _ := afero.ReadFile(dst, "/target/root_file")
	assert.Equal(t, "static content\n", string(data))
}

func TestPasteRenderErrorKeepsWrittenFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/t/broken/a_static", "ok")
	writeFile(t, fs, "/t/broken/b_bad.tmpl", "{{ unclosed ")
	writeFile(t, fs, "/t/broken/c_static", "never")

	tpl, err := Find("broken", []Source{{Fs: fs, Dir: "/t"}})
	require.NoError(t, err)

	dst := afero.NewMemMapFs()
	ctx := configstore.NewContext(configstore.Pair{Key: configstore.KeyDeployDir, Value: "/out"})
	result, err := tpl.Paste(dst, ctx, PasteOptions{Engine: render.NewEngine()})
	require.Error(t, err)

	var renderErr *render.Error
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, "broken/b_bad.tmpl", renderErr.Name)

	assert.Equal(t, []string{filepath.Join("/out", "a_static")}, result.Written)
	exists, _ := afero.Exists(dst, "/out/a_static")
	assert.True(t, exists)
	exists, _ = afero.Exists(dst, "/out/c_static")
	assert.False(t, exists)
}

func TestPasteRelativeDeployDir(t *testing.T) {
	src := memSource(t)
	tpl, err := Find("custom", []Source{src})
	require.NoError(t, err)

	dst := afero.NewMemMapFs()
	result, err := tpl.Paste(dst, configstore.Context{}, PasteOptions{Engine: render.NewEngine()})
	require.NoError(t, err)
	assert.Equal(t, []string{"dir/template", "root_file"}, result.Written)
}
