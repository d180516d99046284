package compile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// goldenTest compiles a testdata .is file and compares the generated Python
// to the matching .py file.
func goldenTest(t *testing.T, name string) {
	t.Helper()

	sourcePath := filepath.Join("..", "..", "testdata", name+".is")
	expectedPath := filepath.Join("..", "..", "testdata", name+".py")

	source, err := os.ReadFile(sourcePath)
	if err != nil {
		t.Fatalf("failed to read %s: %v", sourcePath, err)
	}
	expected, err := os.ReadFile(expectedPath)
	if err != nil {
		t.Fatalf("failed to read %s: %v", expectedPath, err)
	}

	got, err := Compile(string(source), sourcePath, Options{})
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}

	expectedStr := strings.TrimRight(string(expected), "\n")
	gotStr := strings.TrimRight(got, "\n")

	if gotStr != expectedStr {
		expectedLines := strings.Split(expectedStr, "\n")
		gotLines := strings.Split(gotStr, "\n")

		t.Errorf("output mismatch for %s", name)
		maxLines := len(expectedLines)
		if len(gotLines) > maxLines {
			maxLines = len(gotLines)
		}
		for i := 0; i < maxLines; i++ {
			exp, g := "<missing>", "<missing>"
			if i < len(expectedLines) {
				exp = expectedLines[i]
			}
			if i < len(gotLines) {
				g = gotLines[i]
			}
			prefix := "  "
			if exp != g {
				prefix = "! "
			}
			t.Logf("%sline %d: expected=%q got=%q", prefix, i+1, exp, g)
		}
	}
}

func TestGoldenBasics(t *testing.T) {
	goldenTest(t, "golden_basics")
}

func TestGoldenFunctions(t *testing.T) {
	goldenTest(t, "golden_functions")
}

func TestGoldenCollections(t *testing.T) {
	goldenTest(t, "golden_collections")
}

func TestGoldenLoops(t *testing.T) {
	goldenTest(t, "golden_loops")
}
