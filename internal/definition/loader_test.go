package definition

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDefinitionFile(t *testing.T, doc any) string {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "machine.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeDefinitionFile(t, orderDefinition())

	def, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "orders", def.Name)
	assert.Len(t, def.Transitions, 4)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestParseInvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{not json`))
	assert.Error(t, err)
}

func TestParseWithSelector(t *testing.T) {
	doc := map[string]any{
		"machines": []any{orderDefinition()},
		"comment":  "wrapper document",
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	def, err := Parse(data, WithSelector(".machines[0]"))
	require.NoError(t, err)
	assert.Equal(t, "orders", def.Name)
}

func TestParseSelectorNoResult(t *testing.T) {
	data, err := json.Marshal(map[string]any{"machines": []any{}})
	require.NoError(t, err)

	_, err = Parse(data, WithSelector(".machines[0] | select(. != null)"))
	assert.Error(t, err)
}

func TestParseInvalidSelector(t *testing.T) {
	_, err := Parse([]byte(`{}`), WithSelector(".machines["))
	assert.Error(t, err)
}

func TestParseValidates(t *testing.T) {
	def := orderDefinition()
	def.Choices = []string{"Phantom"}
	data, err := json.Marshal(def)
	require.NoError(t, err)

	_, err = Parse(data)
	assert.Error(t, err)
}
