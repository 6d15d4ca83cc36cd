package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_MarshalsAsPlainJSON(t *testing.T) {
	meta := Metadata{
		"plan":     MetaStr("pro"),
		"seats":    MetaNum(5),
		"beta":     MetaFlag(true),
		"settings": MetaNested(Metadata{"theme": MetaStr("dark")}),
	}

	data, err := json.Marshal(meta)
	assert.NoError(t, err)

	var plain map[string]any
	assert.NoError(t, json.Unmarshal(data, &plain))
	assert.Equal(t, "pro", plain["plan"])
	assert.Equal(t, float64(5), plain["seats"])
	assert.Equal(t, true, plain["beta"])
	assert.Equal(t, map[string]any{"theme": "dark"}, plain["settings"])
}

func TestMetadata_RoundTrip(t *testing.T) {
	var meta Metadata
	input := `{"plan":"pro","seats":5,"beta":true,"settings":{"theme":"dark"}}`
	assert.NoError(t, json.Unmarshal([]byte(input), &meta))

	assert.Equal(t, MetaString, meta["plan"].Kind)
	assert.Equal(t, "pro", meta["plan"].Str)
	assert.Equal(t, MetaNumber, meta["seats"].Kind)
	assert.Equal(t, float64(5), meta["seats"].Num)
	assert.Equal(t, MetaBool, meta["beta"].Kind)
	assert.True(t, meta["beta"].Bool)
	assert.Equal(t, MetaMap, meta["settings"].Kind)
	assert.Equal(t, "dark", meta["settings"].Map["theme"].Str)
}

func TestMetadata_RejectsArraysAndNull(t *testing.T) {
	var meta Metadata
	assert.Error(t, json.Unmarshal([]byte(`{"tags":["a","b"]}`), &meta))

	var meta2 Metadata
	assert.Error(t, json.Unmarshal([]byte(`{"gone":null}`), &meta2))
}
