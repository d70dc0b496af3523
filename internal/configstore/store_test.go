package configstore

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/ini.v1"

	"github.com/nibzard/starter/internal/render"
)

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func TestParse(t *testing.T) {
	sections, err := Parse([]byte(`
customkey = customvalue
other = 1

[templates]
include = base, docs
description = A custom template
`))
	require.NoError(t, err)
	require.Len(t, sections, 2)

	assert.Equal(t, DefaultSection, sections[0].Name)
	assert.Equal(t, []Entry{{"customkey", "customvalue"}, {"other", "1"}}, sections[0].Entries)

	assert.Equal(t, "templates", sections[1].Name)
	assert.Equal(t, "include", sections[1].Entries[0].Key)
	assert.Equal(t, "base, docs", sections[1].Entries[0].Value)
}

func TestDefaultSectionMatchesParser(t *testing.T) {
	assert.Equal(t, ini.DefaultSection, DefaultSection)
}

func TestParseKeepsMarkersRaw(t *testing.T) {
	sections, err := Parse([]byte("greeting = hello {{ USER }}\n"))
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "hello {{ USER }}", sections[0].Entries[0].Value)
}

func TestReadSkipsMissingFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/cfg/a.ini", "key = a\n")

	s := New(render.NewEngine())
	require.NoError(t, s.Read(fs, true, "/cfg/missing.ini", "/cfg/a.ini", ""))

	v, err := s.Get(DefaultSection, "key")
	require.NoError(t, err)
	assert.Equal(t, "a", v)
}

func TestReadUpdateModes(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/first.ini", "key = first\nonly_first = 1\n")
	writeFile(t, fs, "/second.ini", "key = second\nonly_second = 2\n")

	t.Run("update replaces", func(t *testing.T) {
		s := New(nil)
		require.NoError(t, s.Read(fs, true, "/first.ini", "/second.ini"))
		v, _ := s.Raw(DefaultSection, "key")
		assert.Equal(t, "second", v)
	})

	t.Run("no update keeps first", func(t *testing.T) {
		s := New(nil)
		require.NoError(t, s.Read(fs, false, "/first.ini", "/second.ini"))
		v, _ := s.Raw(DefaultSection, "key")
		assert.Equal(t, "first", v)
		assert.True(t, s.Has(DefaultSection, "only_second"))
		assert.Equal(t, []string{"key", "only_first", "only_second"}, s.Keys(DefaultSection))
	})

	t.Run("directly set key wins over later read", func(t *testing.T) {
		s := New(nil)
		s.SetDefault("key", "cli")
		require.NoError(t, s.Read(fs, false, "/first.ini"))
		v, _ := s.Raw(DefaultSection, "key")
		assert.Equal(t, "cli", v)
	})
}

func TestReadInvalidFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/bad.ini", "[unterminated\n")

	s := New(nil)
	err := s.Read(fs, true, "/bad.ini")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/bad.ini")
}

func TestPop(t *testing.T) {
	s := New(nil)
	s.Set("templates", "include", "base")

	v, err := s.Pop("templates", "include")
	require.NoError(t, err)
	assert.Equal(t, "base", v)
	assert.False(t, s.Has("templates", "include"))

	_, err = s.Pop("templates", "include")
	assert.True(t, errors.Is(err, ErrKeyNotFound))

	_, err = s.Pop("nosection", "include")
	assert.True(t, errors.Is(err, ErrKeyNotFound))
}

func TestSetIfAbsent(t *testing.T) {
	s := New(nil)
	assert.True(t, s.SetIfAbsent(DefaultSection, "k", "1"))
	assert.False(t, s.SetIfAbsent(DefaultSection, "k", "2"))
	v, _ := s.Raw(DefaultSection, "k")
	assert.Equal(t, "1", v)
}

func TestInterpolation(t *testing.T) {
	s := New(render.NewEngine())
	s.SetDefault("USER", "alice")
	s.SetDefault("project", "{{ USER }}-project")
	s.SetDefault("module", "github.com/{{ project }}")
	s.Set("templates", "description", "Owned by {{ USER|upper }}")

	v, err := s.Get(DefaultSection, "module")
	require.NoError(t, err)
	assert.Equal(t, "github.com/alice-project", v)

	v, err = s.Get("templates", "description")
	require.NoError(t, err)
	assert.Equal(t, "Owned by ALICE", v)

	raw, _ := s.Raw(DefaultSection, "project")
	assert.Equal(t, "{{ USER }}-project", raw, "interpolation must not rewrite stored values")
}

func TestInterpolationIsLazy(t *testing.T) {
	s := New(render.NewEngine())
	s.SetDefault("greeting", "hello {{ name }}")
	s.SetDefault("name", "first")

	v, err := s.Get(DefaultSection, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello first", v)

	s.SetDefault("name", "second")
	v, err = s.Get(DefaultSection, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello second", v)
}

func TestInterpolationSelfReference(t *testing.T) {
	s := New(render.NewEngine())
	s.SetDefault("loop", "{{ loop }}")

	_, err := s.Get(DefaultSection, "loop")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInterpolationDepth))

	_, err = s.Snapshot()
	assert.True(t, errors.Is(err, ErrInterpolationDepth))
}

func TestInterpolationUnclosedMarker(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/ctx.ini", "name = {{ foo\n")

	s := New(render.NewEngine())
	require.NoError(t, s.Read(fs, true, "/ctx.ini"))

	_, err := s.Get(DefaultSection, "name")
	require.Error(t, err)
	assert.True(t, errors.Is(err, render.ErrUnclosed))

	var renderErr *render.Error
	assert.True(t, errors.As(err, &renderErr))

	_, err = s.Snapshot()
	assert.True(t, errors.Is(err, render.ErrUnclosed))
}

func TestGetMissingKey(t *testing.T) {
	s := New(nil)
	_, err := s.Get(DefaultSection, "nope")
	assert.True(t, errors.Is(err, ErrKeyNotFound))
}

func TestSnapshot(t *testing.T) {
	s := New(render.NewEngine())
	s.SetDefault(KeyDeployDir, "/tmp/out")
	s.SetDefault(KeyUser, "alice")
	s.SetDefault("home", "/home/{{ USER }}")
	s.Set("templates", "include", "ignored")

	ctx, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, []string{KeyDeployDir, KeyUser, "home"}, ctx.Keys())
	assert.Equal(t, "/home/alice", ctx.Value("home"))
	assert.Equal(t, "/tmp/out", ctx.DeployDir())
	_, ok := ctx.Get("include")
	assert.False(t, ok)

	s.SetDefault(KeyUser, "bob")
	assert.Equal(t, "alice", ctx.User(), "snapshot must not observe later mutations")
}

func TestSections(t *testing.T) {
	s := New(nil)
	s.Set("templates", "include", "x")
	s.Set("extra", "k", "v")
	assert.Equal(t, []string{DefaultSection, "templates", "extra"}, s.Sections())
	assert.Nil(t, s.Keys("missing"))
}
