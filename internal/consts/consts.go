package consts

const (
	GroundNode  = "gnd" // Ground node name
	GroundAlias = "0"   // SPICE style ground
	InputSource = "input"
)

// IsGround reports whether a node name refers to the reference node.
func IsGround(node string) bool {
	return node == GroundNode || node == GroundAlias
}
