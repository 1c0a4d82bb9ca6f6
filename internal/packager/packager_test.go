package packager

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bootbuild/internal/process"
	"git.home.luguber.info/inful/bootbuild/internal/process/processtest"
)

func writeClasses(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
}

func readArchive(t *testing.T, path string) map[string]string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	out := map[string]string{}
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		_ = rc.Close()
		out[f.Name] = string(data)
	}
	return out
}

func TestManifest_Bytes(t *testing.T) {
	m := Manifest{CreatedBy: "bootbuild test", MainClass: "a.b.Main", Attributes: []Attribute{{"Implementation-Version", "abc123"}}}
	want := "Manifest-Version: 1.0\r\n" +
		"Created-By: bootbuild test\r\n" +
		"Main-Class: a.b.Main\r\n" +
		"Implementation-Version: abc123\r\n" +
		"\r\n"
	assert.Equal(t, want, string(m.Bytes()))
}

func TestManifest_LongLinesAreFolded(t *testing.T) {
	long := strings.Repeat("x", 200)
	data := string(Manifest{MainClass: long}.Bytes())

	lines := strings.Split(strings.TrimSuffix(data, "\r\n\r\n"), "\r\n")
	var rebuilt strings.Builder
	for i, l := range lines {
		assert.LessOrEqual(t, len(l), maxLineBytes, "line %d too long", i)
		if i >= 2 {
			require.True(t, strings.HasPrefix(l, " "), "continuation line %d must start with a space", i)
			rebuilt.WriteString(l[1:])
		} else if i == 1 {
			rebuilt.WriteString(l)
		}
	}
	assert.Equal(t, "Main-Class: "+long, rebuilt.String())
}

func TestManifest_FoldKeepsRunesWhole(t *testing.T) {
	value := strings.Repeat("é", 60)
	data := Manifest{Attributes: []Attribute{{"X", value}}}.Bytes()
	for _, l := range bytes.Split(data, []byte("\r\n")) {
		assert.True(t, utf8.Valid(l), "line split inside a rune: %q", l)
	}
}

func TestManifest_FoldTerminatesOnInvalidUTF8(t *testing.T) {
	value := strings.Repeat("\x80", 200)
	data := string(Manifest{Attributes: []Attribute{{"X", value}}}.Bytes())

	lines := strings.Split(strings.TrimSuffix(data, "\r\n\r\n"), "\r\n")
	var rebuilt strings.Builder
	for i, l := range lines {
		assert.LessOrEqual(t, len(l), maxLineBytes, "line %d too long", i)
		switch {
		case i == 1:
			rebuilt.WriteString(l)
		case i > 1:
			rebuilt.WriteString(strings.TrimPrefix(l, " "))
		}
	}
	assert.Equal(t, "X: "+value, rebuilt.String())
}

func TestNative_PackagesClassDir(t *testing.T) {
	classes := t.TempDir()
	writeClasses(t, classes, map[string]string{
		"net/example/Main.class":       "main",
		"net/example/util/Util.class":  "util",
		"net/example/res/message.txt":  "hi",
		"META-INF/services/x.Provider": "impl",
	})
	out := filepath.Join(t.TempDir(), "out", "builder.jar")

	art, err := NewNative("bootbuild").Package(context.Background(), Request{
		ClassDir:  classes,
		MainClass: "net.example.Main",
		Output:    out,
	})
	require.NoError(t, err)
	assert.Equal(t, out, art.Path)
	assert.Positive(t, art.Size)
	assert.Len(t, art.Digest, 64)

	entries := readArchive(t, out)
	assert.Contains(t, entries[ManifestPath], "Main-Class: net.example.Main\r\n")
	assert.Equal(t, "main", entries["net/example/Main.class"])
	assert.Equal(t, "util", entries["net/example/util/Util.class"])
	assert.Equal(t, "impl", entries["META-INF/services/x.Provider"])
	assert.Contains(t, entries, "net/example/")

	_, err = os.Stat(out + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary archive must be gone")
}

func TestNative_ManifestComesFirst(t *testing.T) {
	classes := t.TempDir()
	writeClasses(t, classes, map[string]string{"A.class": "a"})
	out := filepath.Join(t.TempDir(), "a.jar")

	_, err := NewNative("").Package(context.Background(), Request{ClassDir: classes, MainClass: "A", Output: out})
	require.NoError(t, err)

	r, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()
	require.GreaterOrEqual(t, len(r.File), 3)
	assert.Equal(t, "META-INF/", r.File[0].Name)
	assert.Equal(t, ManifestPath, r.File[1].Name)
}

func TestNative_Deterministic(t *testing.T) {
	classes := t.TempDir()
	writeClasses(t, classes, map[string]string{
		"a/Main.class": "main",
		"a/b/C.class":  "c",
	})
	dir := t.TempDir()
	first := filepath.Join(dir, "first.jar")
	second := filepath.Join(dir, "second.jar")

	p := NewNative("bootbuild")
	req := Request{ClassDir: classes, MainClass: "a.Main"}

	req.Output = first
	a1, err := p.Package(context.Background(), req)
	require.NoError(t, err)

	// Touch the inputs; timestamps must not leak into the archive.
	require.NoError(t, os.Chtimes(filepath.Join(classes, "a", "Main.class"), EntryTime.AddDate(30, 0, 0), EntryTime.AddDate(30, 0, 0)))

	req.Output = second
	a2, err := p.Package(context.Background(), req)
	require.NoError(t, err)

	b1, err := os.ReadFile(first)
	require.NoError(t, err)
	b2, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(b1, b2), "archives differ")
	assert.Equal(t, a1.Digest, a2.Digest)
}

func TestNative_OverwritesExistingArtifact(t *testing.T) {
	classes := t.TempDir()
	writeClasses(t, classes, map[string]string{"A.class": "a"})
	out := filepath.Join(t.TempDir(), "a.jar")
	require.NoError(t, os.WriteFile(out, []byte("stale"), 0o600))

	_, err := NewNative("").Package(context.Background(), Request{ClassDir: classes, MainClass: "A", Output: out})
	require.NoError(t, err)

	entries := readArchive(t, out)
	assert.Equal(t, "a", entries["A.class"])
}

func TestPackage_RejectsMissingOrEmptyClassDir(t *testing.T) {
	out := filepath.Join(t.TempDir(), "a.jar")
	require.NoError(t, os.WriteFile(out, []byte("previous"), 0o600))

	packagers := []Packager{NewNative(""), NewJarTool(processtest.NewRecorder(), "")}
	for _, p := range packagers {
		t.Run(p.Kind(), func(t *testing.T) {
			_, err := p.Package(context.Background(), Request{ClassDir: filepath.Join(t.TempDir(), "missing"), MainClass: "A", Output: out})
			require.ErrorIs(t, err, ErrNoCompiledUnits)

			_, err = p.Package(context.Background(), Request{ClassDir: t.TempDir(), MainClass: "A", Output: out})
			require.ErrorIs(t, err, ErrNoCompiledUnits)

			data, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.Equal(t, "previous", string(data), "failed packaging must not touch the artifact")
		})
	}
}

func TestJarTool_Args(t *testing.T) {
	j := NewJarTool(nil, "")
	req := Request{ClassDir: "build/classes", MainClass: "a.Main"}
	assert.Equal(t, []string{"cfe", "out.jar", "a.Main", "-C", "build/classes", "."}, j.Args(req, "out.jar", ""))
	assert.Equal(t, []string{"cfme", "out.jar", "m.mf", "a.Main", "-C", "build/classes", "."}, j.Args(req, "out.jar", "m.mf"))
}

func TestJarTool_PackageRenamesOutput(t *testing.T) {
	classes := t.TempDir()
	writeClasses(t, classes, map[string]string{"A.class": "a"})
	out := filepath.Join(t.TempDir(), "a.jar")

	rec := processtest.NewRecorder().On("jar", func(cmd process.Command) (*process.Result, error) {
		// args: cfe <out> <main> -C <dir> .
		return &process.Result{}, os.WriteFile(cmd.Args[1], []byte("archive"), 0o600)
	})

	art, err := NewJarTool(rec, "jar").Package(context.Background(), Request{ClassDir: classes, MainClass: "A", Output: out})
	require.NoError(t, err)
	assert.Equal(t, int64(len("archive")), art.Size)

	calls := rec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, out+".tmp", calls[0].Args[1])
}

func TestJarTool_WritesAttributeManifest(t *testing.T) {
	classes := t.TempDir()
	writeClasses(t, classes, map[string]string{"A.class": "a"})
	out := filepath.Join(t.TempDir(), "a.jar")

	var manifest string
	rec := processtest.NewRecorder().On("jar", func(cmd process.Command) (*process.Result, error) {
		data, err := os.ReadFile(cmd.Args[2])
		if err != nil {
			return nil, err
		}
		manifest = string(data)
		return &process.Result{}, os.WriteFile(cmd.Args[1], []byte("archive"), 0o600)
	})

	_, err := NewJarTool(rec, "jar").Package(context.Background(), Request{
		ClassDir:   classes,
		MainClass:  "A",
		Output:     out,
		Attributes: []Attribute{{"Implementation-Version", "abc"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "cfme", rec.Calls()[0].Args[0])
	assert.Contains(t, manifest, "Implementation-Version: abc\r\n")
	assert.NotContains(t, manifest, "Main-Class")
}

func TestJarTool_FailureKeepsPreviousArtifact(t *testing.T) {
	classes := t.TempDir()
	writeClasses(t, classes, map[string]string{"A.class": "a"})
	out := filepath.Join(t.TempDir(), "a.jar")
	require.NoError(t, os.WriteFile(out, []byte("previous"), 0o600))

	rec := processtest.NewRecorder().Exit("jar", 2)
	_, err := NewJarTool(rec, "jar").Package(context.Background(), Request{ClassDir: classes, MainClass: "A", Output: out})
	require.ErrorIs(t, err, ErrPackageFailed)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}

func TestNew(t *testing.T) {
	p, err := New("", nil, "", "")
	require.NoError(t, err)
	assert.Equal(t, KindJar, p.Kind())

	p, err = New(KindNative, nil, "", "x")
	require.NoError(t, err)
	assert.Equal(t, KindNative, p.Kind())

	_, err = New("zip", nil, "", "")
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestDigestMissingFile(t *testing.T) {
	_, err := Digest(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
