package manifest_test

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/epithet-ssh/jarmf/pkg/manifest"
)

func ExampleDecodeString() {
	m, err := manifest.DecodeString("Manifest-Version: 1.0\r\nMain-Class: com.example.Main\r\n\r\nName: com/example/Main.class\r\n")
	if err != nil {
		panic(err)
	}

	for i, sect := range m {
		for key, value := range sect.All() {
			fmt.Printf("%d %s=%s\n", i, key, value)
		}
	}
	// Output:
	// 0 Manifest-Version=1.0
	// 0 Main-Class=com.example.Main
	// 1 Name=com/example/Main.class
}

func ExampleEncodeToString() {
	a := manifest.NewSection[any]()
	a.Set("a", "b")
	c := manifest.NewSection[any]()
	c.Set("c", "d")

	s, err := manifest.EncodeToString(manifest.Manifest[any]{a, c})
	if err != nil {
		panic(err)
	}
	fmt.Printf("%q\n", s)
	// Output: "a: b\r\n\r\nc: d\r\n"
}

func ExampleEncode() {
	main := manifest.NewSection[string]()
	main.Set("Manifest-Version", "1.0")
	main.Set("Class-Path", strings.Repeat("lib/dependency.jar ", 5))

	if err := manifest.Encode(os.Stdout, manifest.Manifest[string]{main}, manifest.StringEncoder); err != nil {
		panic(err)
	}
}

func ExampleDecode_bool() {
	m, err := manifest.Decode(strings.NewReader("Sealed: true\nName: x\n"), manifest.BoolDecoder)
	if err != nil {
		panic(err)
	}

	sealed, _ := m.Main().Get("Sealed")
	name, _ := m.Main().Get("Name")
	fmt.Printf("%T %T\n", sealed, name)
	// Output: bool string
}

func ExampleDuplicateKeyError() {
	_, err := manifest.DecodeString("foo: a\nfoo: b")

	var dupErr *manifest.DuplicateKeyError
	if errors.As(err, &dupErr) {
		fmt.Printf("key %q repeated on line %d\n", dupErr.Key, dupErr.Line)
	}
	// Output: key "foo" repeated on line 2
}
