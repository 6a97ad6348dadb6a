package circuit

import (
	"testing"

	"github.com/edp1096/acfit/pkg/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeAndBranchNumbering(t *testing.T) {
	ckt := New("amp")
	require.NoError(t, ckt.AddResistor("R1", "1k", "in", "n"))
	require.NoError(t, ckt.AddInductor("L1", "1u", "n", "0"))
	require.NoError(t, ckt.AddLibraryOpAmp("U1", "op27", "gnd", "n", "out"))
	require.NoError(t, ckt.AddCapacitor("C1", "5p", "n", "out"))
	defer ckt.Destroy()

	assert.Equal(t, []string{"in", "n", "out"}, ckt.GetNodeNames())
	assert.True(t, ckt.HasNode("gnd"))
	assert.True(t, ckt.HasNode("0"))
	assert.True(t, ckt.HasNode("out"))
	assert.False(t, ckt.HasNode("nowhere"))

	require.NoError(t, ckt.Setup())

	assert.Equal(t, map[string]int{"L1": 4, "U1": 5}, ckt.GetBranchMap())
	assert.Equal(t, 5, ckt.GetMatrix().Size)

	dev, ok := ckt.GetDevice("U1")
	require.True(t, ok)
	assert.Equal(t, []int{0, 2, 3}, dev.GetNodes())
	assert.Equal(t, 5, dev.(device.BranchDevice).BranchIndex())

	idx, ok := ckt.NodeIndex("0")
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestAddRejections(t *testing.T) {
	ckt := New("bad")

	require.NoError(t, ckt.AddResistor("R1", "1k", "a", "b"))
	assert.EqualError(t, ckt.AddCapacitor("R1", "1n", "a", "b"), "component R1 already exists")
	assert.Error(t, ckt.AddResistor("R2", "1x", "a", "b"))
	assert.Error(t, ckt.AddLibraryOpAmp("U1", "LM999", "a", "b", "c"))
	assert.Error(t, ckt.AddLibraryOpAmp("U2", "AD829", "a", "b", "gnd"))

	require.NoError(t, ckt.Setup())
	defer ckt.Destroy()
	assert.Error(t, ckt.AddResistor("R3", "1k", "a", "b"))
}

func TestEmptyCircuitSetup(t *testing.T) {
	assert.Error(t, New("empty").Setup())
}

func TestCustomModels(t *testing.T) {
	lib := device.OpAmpLibrary{}
	require.NoError(t, lib.Add(device.OpAmpModel{Name: "fast", A0: 1e4, GBW: 1e9}))

	ckt := New("custom")
	ckt.SetModels(lib)
	require.NoError(t, ckt.AddLibraryOpAmp("U1", "FAST", "a", "b", "c"))
	assert.Error(t, ckt.AddLibraryOpAmp("U2", "AD829", "a", "b", "c"))
}
