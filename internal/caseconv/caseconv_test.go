package caseconv

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "camel", want: CamelCase},
		{in: "camelCase", want: CamelCase},
		{in: "pascal", want: PascalCase},
		{in: "snake", want: SnakeCase},
		{in: "screaming-snake", want: ScreamingSnakeCase},
		{in: "kebab", want: KebabCase},
		{in: "screaming-kebab", want: ScreamingKebabCase},
		{in: "dromedary", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertWord(t *testing.T) {
	tests := []struct {
		name string
		from Format
		to   Format
		in   string
		want string
	}{
		{name: "camel_to_snake", from: CamelCase, to: SnakeCase, in: "firstName", want: "first_name"},
		{name: "camel_to_pascal", from: CamelCase, to: PascalCase, in: "firstName", want: "FirstName"},
		{name: "camel_to_kebab", from: CamelCase, to: KebabCase, in: "myVarName", want: "my-var-name"},
		{name: "camel_to_screaming_snake", from: CamelCase, to: ScreamingSnakeCase, in: "maxRetryCount", want: "MAX_RETRY_COUNT"},
		{name: "pascal_to_snake", from: PascalCase, to: SnakeCase, in: "HttpClient", want: "http_client"},
		{name: "snake_to_camel", from: SnakeCase, to: CamelCase, in: "first_name", want: "firstName"},
		{name: "snake_to_pascal", from: SnakeCase, to: PascalCase, in: "user_id_map", want: "UserIdMap"},
		{name: "screaming_snake_to_kebab", from: ScreamingSnakeCase, to: KebabCase, in: "MAX_VALUE", want: "max-value"},
		{name: "kebab_to_screaming_kebab", from: KebabCase, to: ScreamingKebabCase, in: "first-name", want: "FIRST-NAME"},
		{name: "digits_preserved", from: SnakeCase, to: CamelCase, in: "utf_8_codec", want: "utf8Codec"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv, err := New(afero.NewMemMapFs(), Options{From: tt.from, To: tt.to})
			require.NoError(t, err)
			assert.Equal(t, tt.want, conv.ConvertWord(tt.in))
		})
	}
}

func TestConvertWordPrefixSuffix(t *testing.T) {
	conv, err := New(afero.NewMemMapFs(), Options{
		From:   CamelCase,
		To:     SnakeCase,
		Prefix: "legacy_",
		Suffix: "_v2",
	})
	require.NoError(t, err)
	assert.Equal(t, "legacy_first_name_v2", conv.ConvertWord("firstName"))
}

func TestConvertWordFilter(t *testing.T) {
	conv, err := New(afero.NewMemMapFs(), Options{
		From:       CamelCase,
		To:         SnakeCase,
		WordFilter: "get.*",
	})
	require.NoError(t, err)

	assert.Equal(t, "get_value", conv.ConvertWord("getValue"))
	// Identifiers not matching the filter pass through unchanged.
	assert.Equal(t, "setValue", conv.ConvertWord("setValue"))
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	_, err := New(afero.NewMemMapFs(), Options{From: "bogus", To: SnakeCase})
	assert.Error(t, err)

	_, err = New(afero.NewMemMapFs(), Options{From: CamelCase, To: "bogus"})
	assert.Error(t, err)

	_, err = New(afero.NewMemMapFs(), Options{From: CamelCase, To: SnakeCase, WordFilter: "(unclosed"})
	assert.Error(t, err)
}

func TestProcessFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "main.py",
		[]byte("firstName = getUserName()\nplain = 1\n"), 0644))

	conv, err := New(fs, Options{From: CamelCase, To: SnakeCase})
	require.NoError(t, err)

	result, err := conv.ProcessFile("main.py")
	require.NoError(t, err)
	assert.True(t, result.Changed)

	content, err := afero.ReadFile(fs, "main.py")
	require.NoError(t, err)
	assert.Equal(t, "first_name = get_user_name()\nplain = 1\n", string(content))
}

func TestProcessFileNoChange(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "main.py", []byte("already_snake = 1\n"), 0644))

	conv, err := New(fs, Options{From: CamelCase, To: SnakeCase})
	require.NoError(t, err)

	result, err := conv.ProcessFile("main.py")
	require.NoError(t, err)
	assert.False(t, result.Changed)
}

func TestProcessFileDryRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	original := "firstName = 1\n"
	require.NoError(t, afero.WriteFile(fs, "main.py", []byte(original), 0644))

	conv, err := New(fs, Options{From: CamelCase, To: SnakeCase, DryRun: true})
	require.NoError(t, err)

	result, err := conv.ProcessFile("main.py")
	require.NoError(t, err)
	assert.True(t, result.Changed)

	// Dry run must not touch the file.
	content, err := afero.ReadFile(fs, "main.py")
	require.NoError(t, err)
	assert.Equal(t, original, string(content))
}

func TestProcessPathDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "src/a.py", []byte("firstName = 1\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "src/sub/b.py", []byte("lastName = 2\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "src/skip.txt", []byte("otherName = 3\n"), 0644))

	conv, err := New(fs, Options{
		From:       CamelCase,
		To:         SnakeCase,
		Extensions: []string{".py"},
		Recursive:  true,
	})
	require.NoError(t, err)

	results, err := conv.ProcessPath("src")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "src/a.py", results[0].Path)
	assert.Equal(t, "src/sub/b.py", results[1].Path)

	// The .txt file was not selected and remains untouched.
	content, err := afero.ReadFile(fs, "src/skip.txt")
	require.NoError(t, err)
	assert.Equal(t, "otherName = 3\n", string(content))
}

func TestProcessPathNonRecursive(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "src/a.py", []byte("firstName = 1\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "src/sub/b.py", []byte("lastName = 2\n"), 0644))

	conv, err := New(fs, Options{From: CamelCase, To: SnakeCase, Extensions: []string{".py"}})
	require.NoError(t, err)

	results, err := conv.ProcessPath("src")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "src/a.py", results[0].Path)
}

func TestProcessPathSingleFileExtensionFilter(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "notes.txt", []byte("firstName\n"), 0644))

	conv, err := New(fs, Options{From: CamelCase, To: SnakeCase, Extensions: []string{".py"}})
	require.NoError(t, err)

	results, err := conv.ProcessPath("notes.txt")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestProcessPathGlob(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "src/test_a.py", []byte("firstName = 1\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "src/b.py", []byte("lastName = 2\n"), 0644))

	conv, err := New(fs, Options{
		From:       CamelCase,
		To:         SnakeCase,
		Extensions: []string{".py"},
		Recursive:  true,
		Glob:       "test_*.py",
	})
	require.NoError(t, err)

	results, err := conv.ProcessPath("src")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "src/test_a.py", results[0].Path)
}

func TestProcessPathSingleFileGlobFilter(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "main.go", []byte("my_value := 1\n"), 0644))

	conv, err := New(fs, Options{From: SnakeCase, To: CamelCase, Glob: "*test*.go"})
	require.NoError(t, err)

	results, err := conv.ProcessPath("main.go")
	require.NoError(t, err)
	assert.Empty(t, results)

	content, err := afero.ReadFile(fs, "main.go")
	require.NoError(t, err)
	assert.Equal(t, "my_value := 1\n", string(content), "non-matching file must not be modified")
}

func TestProcessPathSingleFileGlobMatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "my_test.go", []byte("my_value := 1\n"), 0644))

	conv, err := New(fs, Options{From: SnakeCase, To: CamelCase, Glob: "*test*.go"})
	require.NoError(t, err)

	results, err := conv.ProcessPath("my_test.go")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Changed)

	content, err := afero.ReadFile(fs, "my_test.go")
	require.NoError(t, err)
	assert.Equal(t, "myValue := 1\n", string(content))
}

func TestNewRejectsInvalidGlob(t *testing.T) {
	_, err := New(afero.NewMemMapFs(), Options{From: SnakeCase, To: CamelCase, Glob: "[bad"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid glob pattern")
}
