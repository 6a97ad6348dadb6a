package circuit

import (
	"fmt"

	"github.com/edp1096/acfit/internal/consts"
	"github.com/edp1096/acfit/pkg/device"
	"github.com/edp1096/acfit/pkg/matrix"
	"github.com/edp1096/acfit/pkg/util"
)

// Circuit accumulates devices in insertion order and owns the node and
// branch numbering of the MNA system built from them.
type Circuit struct {
	name      string
	nodeMap   map[string]int
	nodeOrder []string
	branchMap map[string]int
	devices   []device.Device
	byName    map[string]device.Device
	numNodes  int
	matrix    *matrix.CircuitMatrix
	Models    device.OpAmpLibrary
}

func New(name string) *Circuit {
	return &Circuit{
		name:      name,
		nodeMap:   make(map[string]int),
		branchMap: make(map[string]int),
		devices:   make([]device.Device, 0),
		byName:    make(map[string]device.Device),
		Models:    device.DefaultOpAmpLibrary(),
	}
}

func (c *Circuit) SetModels(models device.OpAmpLibrary) {
	c.Models = models
}

func (c *Circuit) AddResistor(name, value, node1, node2 string) error {
	v, err := util.ParseValue(value)
	if err != nil {
		return fmt.Errorf("resistor %s: %w", name, err)
	}
	return c.AddDevice(device.NewResistor(name, []string{node1, node2}, v))
}

func (c *Circuit) AddCapacitor(name, value, node1, node2 string) error {
	v, err := util.ParseValue(value)
	if err != nil {
		return fmt.Errorf("capacitor %s: %w", name, err)
	}
	return c.AddDevice(device.NewCapacitor(name, []string{node1, node2}, v))
}

func (c *Circuit) AddInductor(name, value, node1, node2 string) error {
	v, err := util.ParseValue(value)
	if err != nil {
		return fmt.Errorf("inductor %s: %w", name, err)
	}
	return c.AddDevice(device.NewInductor(name, []string{node1, node2}, v))
}

// AddLibraryOpAmp adds an op-amp whose model comes from c.Models.
// node1 is the non-inverting input, node2 the inverting input, node3 the output.
func (c *Circuit) AddLibraryOpAmp(name, model, node1, node2, node3 string) error {
	m, err := c.Models.Get(model)
	if err != nil {
		return fmt.Errorf("op-amp %s: %w", name, err)
	}
	if consts.IsGround(node3) {
		return fmt.Errorf("op-amp %s: output cannot be ground", name)
	}
	return c.AddDevice(device.NewOpAmp(name, []string{node1, node2, node3}, m))
}

// AddDevice appends a device. Names are unique within a circuit.
func (c *Circuit) AddDevice(dev device.Device) error {
	name := dev.GetName()
	if name == "" {
		return fmt.Errorf("%s device without name", dev.GetType())
	}
	if _, exists := c.byName[name]; exists {
		return fmt.Errorf("component %s already exists", name)
	}
	if c.matrix != nil {
		return fmt.Errorf("adding %s: circuit already set up", name)
	}

	c.byName[name] = dev
	c.devices = append(c.devices, dev)

	for _, nodeName := range dev.GetNodeNames() {
		if consts.IsGround(nodeName) {
			continue
		}
		if _, exists := c.nodeMap[nodeName]; !exists {
			c.nodeMap[nodeName] = len(c.nodeMap) + 1
			c.nodeOrder = append(c.nodeOrder, nodeName)
		}
	}
	c.numNodes = len(c.nodeMap)

	return nil
}

// AssignBranchMaps numbers branch rows after the node rows.
func (c *Circuit) AssignBranchMaps() {
	branchStart := len(c.nodeMap) + 1
	for _, dev := range c.devices {
		if bd, ok := dev.(device.BranchDevice); ok {
			c.branchMap[dev.GetName()] = branchStart
			bd.SetBranchIndex(branchStart)
			branchStart++
		}
	}
}

func (c *Circuit) CreateMatrix() error {
	var err error

	matrixSize := len(c.nodeMap) + len(c.branchMap)
	c.matrix, err = matrix.NewMatrix(matrixSize)
	if err != nil {
		return fmt.Errorf("creating matrix: %w", err)
	}
	return nil
}

// Setup resolves node indices and allocates the matrix. No devices may be
// added afterwards.
func (c *Circuit) Setup() error {
	if len(c.devices) == 0 {
		return fmt.Errorf("circuit %q has no components", c.name)
	}
	if c.matrix != nil {
		return nil
	}

	for _, dev := range c.devices {
		names := dev.GetNodeNames()
		nodeIndices := make([]int, len(names))
		for i, nodeName := range names {
			if consts.IsGround(nodeName) {
				nodeIndices[i] = 0
				continue
			}
			nodeIndices[i] = c.nodeMap[nodeName]
		}
		dev.SetNodes(nodeIndices)
	}

	c.AssignBranchMaps()
	return c.CreateMatrix()
}

func (c *Circuit) Stamp(status *device.CircuitStatus) error {
	var err error

	for _, dev := range c.devices {
		err = dev.Stamp(c.matrix, status)
		if err != nil {
			return fmt.Errorf("stamping device %s: %w", dev.GetName(), err)
		}
	}
	return nil
}

func (c *Circuit) GetMatrix() *matrix.CircuitMatrix {
	return c.matrix
}

func (c *Circuit) GetNodeMap() map[string]int {
	return c.nodeMap
}

// GetNodeNames returns non-ground nodes in order of first appearance.
func (c *Circuit) GetNodeNames() []string {
	return append([]string(nil), c.nodeOrder...)
}

func (c *Circuit) GetBranchMap() map[string]int {
	return c.branchMap
}

func (c *Circuit) GetDevices() []device.Device {
	return c.devices
}

func (c *Circuit) GetDevice(name string) (device.Device, bool) {
	dev, ok := c.byName[name]
	return dev, ok
}

// HasNode reports whether name is ground or a node referenced by a device.
func (c *Circuit) HasNode(name string) bool {
	if consts.IsGround(name) {
		return true
	}
	_, ok := c.nodeMap[name]
	return ok
}

// NodeIndex returns the matrix row of a node, 0 for ground.
func (c *Circuit) NodeIndex(name string) (int, bool) {
	if consts.IsGround(name) {
		return 0, true
	}
	idx, ok := c.nodeMap[name]
	return idx, ok
}

func (c *Circuit) Destroy() {
	if c.matrix != nil {
		c.matrix.Destroy()
	}
}

func (c *Circuit) Name() string {
	return c.name
}

func (c *Circuit) GetNumNodes() int {
	return c.numNodes
}
