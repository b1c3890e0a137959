package synth

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cdk-cost/internal/errors"
)

func writeTemplate(t *testing.T, dir, name string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(`{"Resources": {}}`), 0o644))
	return path
}

func TestSynthesizeCollectsTemplates(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "cdk.out")
	app := writeTemplate(t, outDir, "AppStack.template.json")
	network := writeTemplate(t, outDir, "NetworkStack.template.json")

	runner := NewRunner(Options{
		Command: []string{"true"},
		Dir:     dir,
	})

	got, err := runner.Synthesize(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{app, network}, got)
}

func TestSynthesizeFailingCommand(t *testing.T) {
	runner := NewRunner(Options{
		Command: []string{"sh", "-c", "echo synth exploded >&2; exit 1"},
		Dir:     t.TempDir(),
	})

	_, err := runner.Synthesize(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeSynthesis))
	assert.Contains(t, err.Error(), "synth exploded")
}

func TestSynthesizeTimeout(t *testing.T) {
	runner := NewRunner(Options{
		Command: []string{"sleep", "10"},
		Dir:     t.TempDir(),
		Timeout: 100 * time.Millisecond,
	})

	start := time.Now()
	_, err := runner.Synthesize(context.Background())
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeSynthesis))
	assert.Contains(t, err.Error(), "timed out")
	assert.Less(t, elapsed, 5*time.Second)
}

func TestSynthesizeNoTemplatesProduced(t *testing.T) {
	runner := NewRunner(Options{
		Command: []string{"true"},
		Dir:     t.TempDir(),
	})

	_, err := runner.Synthesize(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeSynthesis))
	assert.Contains(t, err.Error(), "no templates")
}

func TestStackName(t *testing.T) {
	assert.Equal(t, "AppStack", StackName("/tmp/cdk.out/AppStack.template.json"))
	assert.Equal(t, "NetworkStack", StackName("NetworkStack.template.json"))
}

func TestReadTemplate(t *testing.T) {
	path := writeTemplate(t, t.TempDir(), "Stack.template.json")

	got, err := ReadTemplate(path)
	require.NoError(t, err)
	assert.Contains(t, got, "Resources")

	_, err = ReadTemplate(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))
}
