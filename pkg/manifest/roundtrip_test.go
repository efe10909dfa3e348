package manifest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTrip_Repeated(t *testing.T) {
	original := Manifest[any]{section("a", "b"), section("c", "d")}

	encoded, err := EncodeToString(original)
	require.NoError(t, err)

	repeated, err := DecodeString(encoded)
	require.NoError(t, err)
	require.Equal(t, original, repeated)
}

func TestRoundTrip_Bool(t *testing.T) {
	original := Manifest[any]{section("Sealed", true, "Multi-Release", false, "Main-Class", "com.example.Main")}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, original, BoolEncoder))

	decoded, err := Decode(&buf, BoolDecoder)
	require.NoError(t, err)
	require.Equal(t, original, decoded)
}

func TestRoundTrip_RealisticManifest(t *testing.T) {
	input := strings.Join([]string{
		"Manifest-Version: 1.0",
		"Created-By: Maven JAR Plugin 3.3.0",
		"Build-Jdk-Spec: 17",
		"Class-Path: lib/commons-lang3-3.14.0.jar lib/commons-io-2.15.1.jar lib",
		" /guava-33.0.0-jre.jar lib/slf4j-api-2.0.9.jar",
		"Main-Class: com.example.app.Main",
		"",
		"Name: com/example/app/Main.class",
		"SHA-256-Digest: 2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e730433",
		" 62938b9824",
		"",
	}, LineEnding)

	m, err := Decode(strings.NewReader(input), StringDecoder)
	require.NoError(t, err)
	require.Len(t, m, 2)

	cp, ok := m.Main().Get("Class-Path")
	require.True(t, ok)
	require.Equal(t, "lib/commons-lang3-3.14.0.jar lib/commons-io-2.15.1.jar lib/guava-33.0.0-jre.jar lib/slf4j-api-2.0.9.jar", cp)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, m, StringEncoder))
	require.Equal(t, input, buf.String())
}

func TestRoundTrip_IdempotentReencode(t *testing.T) {
	m := Manifest[any]{
		section("Manifest-Version", "1.0", "Long", strings.Repeat("0123456789", 25)),
		section("Name", "x", "Empty", ""),
	}

	first, err := EncodeToString(m)
	require.NoError(t, err)

	decoded, err := DecodeString(first)
	require.NoError(t, err)

	second, err := EncodeToString(decoded)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestRoundTrip_LFInput(t *testing.T) {
	lf := "a: b\n\nc: d\n"
	m, err := DecodeString(lf)
	require.NoError(t, err)

	out, err := EncodeToString(m)
	require.NoError(t, err)
	require.Equal(t, strings.ReplaceAll(lf, "\n", LineEnding), out)
}
