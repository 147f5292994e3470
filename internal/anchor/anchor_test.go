package anchor

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestAnchorVariants(t *testing.T) {
	id := uuid.New()
	dev, pad := uuid.New(), uuid.New()

	j := Junction(id)
	require.Equal(t, KindJunction, j.Kind())
	got, ok := j.TryJunction()
	require.True(t, ok)
	require.Equal(t, id, got)
	_, ok = j.TryVia()
	require.False(t, ok)
	_, ok = j.TryPad()
	require.False(t, ok)

	v := Via(id)
	require.Equal(t, KindVia, v.Kind())
	got, ok = v.TryVia()
	require.True(t, ok)
	require.Equal(t, id, got)

	p := Pad(dev, pad)
	require.Equal(t, KindPad, p.Kind())
	ref, ok := p.TryPad()
	require.True(t, ok)
	require.Equal(t, PadRef{Device: dev, Pad: pad}, ref)

	// Same id under different kinds must not collide as map keys.
	seen := map[Anchor]bool{j: true}
	require.False(t, seen[v])
	require.True(t, seen[Junction(id)])
}

func TestAnchorJSONRoundTrip(t *testing.T) {
	for _, a := range []Anchor{Junction(uuid.New()), Via(uuid.New()), Pad(uuid.New(), uuid.New())} {
		data, err := json.Marshal(a)
		require.NoError(t, err)
		var back Anchor
		require.NoError(t, json.Unmarshal(data, &back))
		require.Equal(t, a, back, "json: %s", data)
	}
}

func TestAnchorYAMLRoundTrip(t *testing.T) {
	type holder struct {
		From Anchor `yaml:"from"`
		To   Anchor `yaml:"to"`
	}
	in := holder{From: Pad(uuid.New(), uuid.New()), To: Via(uuid.New())}
	data, err := yaml.Marshal(in)
	require.NoError(t, err)
	var out holder
	require.NoError(t, yaml.Unmarshal(data, &out))
	require.Equal(t, in, out, "yaml:\n%s", data)
}

func TestAnchorRejectsAmbiguousWire(t *testing.T) {
	tests := []string{
		`{}`,
		`{"junction":"` + uuid.NewString() + `","via":"` + uuid.NewString() + `"}`,
		`{"device":"` + uuid.NewString() + `"}`,
	}
	for _, in := range tests {
		var a Anchor
		require.Error(t, json.Unmarshal([]byte(in), &a), in)
	}
}
