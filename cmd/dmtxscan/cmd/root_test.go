package cmd

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := GetRootCommand()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func writeTestPNG(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "label.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, 32, 32))))
	require.NoError(t, f.Close())
	return path
}

func TestRootVersionFlag(t *testing.T) {
	out, err := executeCommand(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dmtxscan version")
	assert.Contains(t, out, "Library: libdmtx")
}

func TestRootHelpListsSubcommands(t *testing.T) {
	out, err := executeCommand(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "scan")
	assert.Contains(t, out, "pdf")
	assert.Contains(t, out, "serve")
}

func TestScanNoArgs(t *testing.T) {
	_, err := executeCommand(t, "scan")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input files provided")
}

func TestScanUnsupportedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))
	_, err := executeCommand(t, "scan", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported image format")
}

func TestScanInvalidFormat(t *testing.T) {
	path := writeTestPNG(t)
	_, err := executeCommand(t, "scan", path, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestScanWithoutNativeBackend(t *testing.T) {
	// Without the dmtx_cgo build tag the decode call must surface the
	// not-linked error instead of silently returning nothing.
	path := writeTestPNG(t)
	_, err := executeCommand(t, "scan", path, "--format", "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not linked")
}

func TestPdfNoArgs(t *testing.T) {
	_, err := executeCommand(t, "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no PDF file provided")
}

func TestPdfRejectsNonPDF(t *testing.T) {
	_, err := executeCommand(t, "pdf", "image.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a PDF file")
}
