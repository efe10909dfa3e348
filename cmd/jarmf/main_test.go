package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/epithet-ssh/jarmf/pkg/mfserver"
	"github.com/klauspost/compress/zip"
	"github.com/lmittmann/tint"
	"github.com/stretchr/testify/require"
)

const sampleManifest = "Manifest-Version: 1.0\r\n" +
	"Main-Class: org.example.Main\r\n" +
	"Sealed: true\r\n" +
	"\r\n" +
	"Name: org/example/Main.class\r\n" +
	"SHA-256-Digest: q83vEjRWeJA=\r\n"

func testLogger(t *testing.T) *slog.Logger {
	return slog.New(tint.NewHandler(t.Output(), &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: "15:04:05",
	}))
}

func writeTemp(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func writeJar(t *testing.T, name, mf string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("META-INF/MANIFEST.MF")
	require.NoError(t, err)
	_, err = io.WriteString(w, mf)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return path
}

// jarmf runs the CLI with args and returns what it wrote to stdout.
func jarmf(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	stdio := &IO{In: strings.NewReader(stdin), Out: &out}
	err := run(args, stdio, io.Discard, kong.Exit(func(int) {}))
	return out.String(), err
}

func TestDecode_JSON(t *testing.T) {
	path := writeTemp(t, "MANIFEST.MF", sampleManifest)

	out, err := jarmf(t, "", "decode", path)
	require.NoError(t, err)
	require.Contains(t, out, `"Main-Class": "org.example.Main"`)
	require.Contains(t, out, `"Sealed": "true"`)
	require.Less(t, strings.Index(out, "Manifest-Version"), strings.Index(out, "Main-Class"))
}

func TestDecode_BoolCodec(t *testing.T) {
	out, err := jarmf(t, sampleManifest, "--codec", "bool", "decode")
	require.NoError(t, err)
	require.Contains(t, out, `"Sealed": true`)
}

func TestDecode_YAMLFromStdin(t *testing.T) {
	out, err := jarmf(t, "Manifest-Version: 1.0\nCreated-By: test\n", "decode", "-", "-o", "yaml")
	require.NoError(t, err)
	require.Equal(t, "- Manifest-Version: \"1.0\"\n  Created-By: test\n", out)
}

func TestDecode_Jar(t *testing.T) {
	path := writeJar(t, "app.jar", sampleManifest)

	out, err := jarmf(t, "", "decode", "--output", "mf", path)
	require.NoError(t, err)
	require.Equal(t, sampleManifest, out)
}

func TestDecode_JarFlag(t *testing.T) {
	path := writeJar(t, "app.bin", sampleManifest)

	out, err := jarmf(t, "", "decode", "--jar", path)
	require.NoError(t, err)
	require.Contains(t, out, "org.example.Main")
}

func TestDecode_Malformed(t *testing.T) {
	_, err := jarmf(t, "Manifest-Version: 1.0\nbroken\n", "decode")
	require.ErrorContains(t, err, "line 2")
}

func TestDecode_MaxLineLength(t *testing.T) {
	_, err := jarmf(t, "Key: "+strings.Repeat("v", 100)+"\n", "--max-line-length", "32", "decode")
	require.Error(t, err)
}

func TestDecode_UnknownCodec(t *testing.T) {
	_, err := jarmf(t, sampleManifest, "--codec", "int", "decode")
	require.Error(t, err)
}

func TestEncode_JSON(t *testing.T) {
	in := `[{"Manifest-Version": "1.0", "Main-Class": "org.example.Main"}, {"Name": "a/B.class"}]`

	out, err := jarmf(t, in, "encode")
	require.NoError(t, err)
	require.Equal(t, "Manifest-Version: 1.0\r\nMain-Class: org.example.Main\r\n\r\nName: a/B.class\r\n", out)
}

func TestEncode_YAMLByExtension(t *testing.T) {
	path := writeTemp(t, "mf.yaml", "- Manifest-Version: 1.0\n  Sealed: true\n")

	out, err := jarmf(t, "", "--codec", "bool", "encode", path)
	require.NoError(t, err)
	require.Equal(t, "Manifest-Version: 1.0\r\nSealed: true\r\n", out)
}

func TestEncode_BadInputFormat(t *testing.T) {
	_, err := jarmf(t, "", "encode", "--input", "mf")
	require.ErrorContains(t, err, "json or yaml")
}

func TestGet(t *testing.T) {
	path := writeTemp(t, "MANIFEST.MF", sampleManifest)

	out, err := jarmf(t, "", "get", "Main-Class", path)
	require.NoError(t, err)
	require.Equal(t, "org.example.Main\n", out)

	out, err = jarmf(t, "", "get", "--section", "1", "SHA-256-Digest", path)
	require.NoError(t, err)
	require.Equal(t, "q83vEjRWeJA=\n", out)
}

func TestGet_Missing(t *testing.T) {
	path := writeTemp(t, "MANIFEST.MF", sampleManifest)

	_, err := jarmf(t, "", "get", "Nope", path)
	require.ErrorContains(t, err, `key "Nope" not found`)

	_, err = jarmf(t, "", "get", "-s", "5", "Name", path)
	require.ErrorContains(t, err, "out of range")
}

func TestRender(t *testing.T) {
	tmpl := writeTemp(t, "tmpl.mustache", "{{main.Main-Class}} ({{count}} entries)\n")
	path := writeJar(t, "app.jar", sampleManifest)

	out, err := jarmf(t, "", "render", tmpl, path)
	require.NoError(t, err)
	require.Equal(t, "org.example.Main (1 entries)\n", out)
}

func TestFmt(t *testing.T) {
	long := strings.Repeat("lib/dependency.jar ", 8)
	in := "Manifest-Version: 1.0\nClass-Path: " + long + "\n\n\n\nName: a\n"

	out, err := jarmf(t, in, "fmt")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "Manifest-Version: 1.0\r\nClass-Path: "))
	require.Contains(t, out, "\r\n\r\nName: a\r\n")
	for _, line := range strings.Split(out, "\r\n") {
		require.LessOrEqual(t, len(line), 70)
	}
}

func TestFmt_Write(t *testing.T) {
	path := writeTemp(t, "MANIFEST.MF", "Manifest-Version: 1.0\nCreated-By: test\n")

	out, err := jarmf(t, "", "fmt", "-w", path)
	require.NoError(t, err)
	require.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "Manifest-Version: 1.0\r\nCreated-By: test\r\n", string(data))
}

func TestFmt_WriteRefusesArchive(t *testing.T) {
	path := writeJar(t, "app.jar", sampleManifest)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = jarmf(t, "", "fmt", "-w", path)
	require.ErrorContains(t, err, "cannot rewrite archive")

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, before, after)

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	require.NoError(t, zr.Close())

	// Without -w the archive is only read
	out, err := jarmf(t, "", "fmt", path)
	require.NoError(t, err)
	require.Equal(t, sampleManifest, out)
}

func TestFmt_WriteRefusesRemote(t *testing.T) {
	for _, url := range []string{"s3://bucket/app.jar", "https://repo.example.com/MANIFEST.MF"} {
		_, err := jarmf(t, "", "fmt", "-w", url)
		require.ErrorContains(t, err, "cannot rewrite remote input", url)
	}
}

func TestEncode_RejectsEmptySection(t *testing.T) {
	_, err := jarmf(t, `[{"A": "b"}, {}, {"C": "d"}]`, "encode")
	require.ErrorContains(t, err, "empty section")
}

func TestFmt_WriteNeedsPath(t *testing.T) {
	_, err := jarmf(t, "A: b\n", "fmt", "-w")
	require.ErrorContains(t, err, "needs a file path")
}

func TestConfigFile(t *testing.T) {
	cfg := writeTemp(t, "jarmf.yaml", "codec: bool\n")

	out, err := jarmf(t, sampleManifest, "--config", cfg, "decode")
	require.NoError(t, err)
	require.Contains(t, out, `"Sealed": true`)
}

func TestServe_Handler(t *testing.T) {
	c := &ServeCLI{Listen: "127.0.0.1:0", MaxBodySize: 1024}
	cfg, err := c.serverConfig(&Globals{})
	require.NoError(t, err)

	h, err := c.handler(testLogger(t), cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/decode", "text/plain", strings.NewReader(sampleManifest))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `"Main-Class":"org.example.Main"`)
}

func TestServe_ServerConfig(t *testing.T) {
	path := writeTemp(t, "server.yaml", "listen: \":9999\"\nmax_body_size: 10\ntimeout: 2s\n")

	c := &ServeCLI{Listen: "127.0.0.1:8080", MaxBodySize: 1024, ServerConfig: path}
	cfg, err := c.serverConfig(&Globals{MaxLineLength: 64})
	require.NoError(t, err)
	require.Equal(t, ":9999", cfg.Listen)
	require.Equal(t, int64(10), cfg.MaxBodySize)
	require.Equal(t, 64, cfg.MaxLineLength)
	require.Equal(t, "2s", cfg.Timeout)

	h, err := c.handler(testLogger(t), cfg)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/decode", strings.NewReader(sampleManifest)))
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestServe_BadTimeout(t *testing.T) {
	c := &ServeCLI{}
	_, err := c.handler(testLogger(t), mfserver.Config{Timeout: "forever"})
	require.ErrorContains(t, err, "invalid timeout")
}

func TestDecode_HTTP(t *testing.T) {
	archive, err := os.ReadFile(writeJar(t, "app.jar", sampleManifest))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	}))
	defer srv.Close()

	_, err = jarmf(t, "", "decode", srv.URL+"/app.jar")
	require.ErrorContains(t, err, "insecure http://")

	out, err := jarmf(t, "", "--insecure", "get", "Main-Class", srv.URL+"/app.jar")
	require.NoError(t, err)
	require.Equal(t, "org.example.Main\n", out)
}
