package schema

// Global is the process-wide schema registry, populated once at
// package init and never mutated afterwards (spec.md's design notes:
// "no mutation after initialisation, so it requires no locking").
var Global = NewRegistry()

// Wire IDs for the Fixed-frequency messages. Per spec.md §6.2 these
// are full 32-bit big-endian values, conventionally 0xFFFFFFxx; the
// catalogue table's small-integer IDs (UseCircuitCode=3,
// CompleteAgentMovement=249, LogoutRequest=252) are that low byte.
const (
	idUseCircuitCode       = 0xFFFFFF03
	idCompleteAgentMovement = 0xFFFFFFF9
	idLogoutRequest        = 0xFFFFFFFC
	idPacketAck            = 0xFFFFFFFB
	idCloseCircuit         = 0xFFFFFFFD
)

func init() {
	for _, s := range catalogue() {
		Global.MustRegister(s)
	}
}

func agentSessionBlock(name string) Block {
	return Block{
		Name:        name,
		Cardinality: Single,
		Fields: []Field{
			{Name: "AgentID", Type: TypeUUID},
			{Name: "SessionID", Type: TypeUUID},
		},
	}
}

func catalogue() []*Schema {
	return []*Schema{
		{
			Name: "StartPingCheck", ID: 1, Frequency: Low, ZeroCoded: false,
			Blocks: []Block{{
				Name: "PingID", Cardinality: Single,
				Fields: []Field{
					{Name: "PingID", Type: TypeU8},
					{Name: "OldestUnacked", Type: TypeU32},
				},
			}},
		},
		{
			Name: "CompletePingCheck", ID: 2, Frequency: Low, ZeroCoded: false,
			Blocks: []Block{{
				Name: "PingID", Cardinality: Single,
				Fields: []Field{{Name: "PingID", Type: TypeU8}},
			}},
		},
		{
			Name: "AgentUpdate", ID: 4, Frequency: Low, ZeroCoded: true,
			Blocks: []Block{{
				Name: "AgentData", Cardinality: Single,
				Fields: []Field{
					{Name: "AgentID", Type: TypeUUID},
					{Name: "SessionID", Type: TypeUUID},
					{Name: "BodyRotation", Type: TypeQuaternion},
					{Name: "HeadRotation", Type: TypeQuaternion},
					{Name: "State", Type: TypeU8},
					{Name: "CameraCenter", Type: TypeVector3},
					{Name: "CameraAtAxis", Type: TypeVector3},
					{Name: "CameraLeftAxis", Type: TypeVector3},
					{Name: "CameraUpAxis", Type: TypeVector3},
					{Name: "Far", Type: TypeF32},
					{Name: "ControlFlags", Type: TypeU32},
					{Name: "Flags", Type: TypeU8},
				},
			}},
		},
		{
			Name: "UseCircuitCode", ID: idUseCircuitCode, Frequency: Fixed, ZeroCoded: false,
			Blocks: []Block{{
				Name: "CircuitCode", Cardinality: Single,
				Fields: []Field{
					{Name: "Code", Type: TypeU32},
					{Name: "SessionID", Type: TypeUUID},
					{Name: "ID", Type: TypeUUID},
				},
			}},
		},
		{
			Name: "ChatFromViewer", ID: 80, Frequency: High, ZeroCoded: true,
			Blocks: []Block{
				agentSessionBlock("AgentData"),
				{
					Name: "ChatData", Cardinality: Single,
					Fields: []Field{
						{Name: "Message", Type: TypeLatinString1},
						{Name: "Type", Type: TypeU8},
						{Name: "Channel", Type: TypeI32},
					},
				},
			},
		},
		{
			Name: "AgentThrottle", ID: 81, Frequency: High, ZeroCoded: true,
			Blocks: []Block{
				{
					Name: "AgentData", Cardinality: Single,
					Fields: []Field{
						{Name: "AgentID", Type: TypeUUID},
						{Name: "SessionID", Type: TypeUUID},
						{Name: "CircuitCode", Type: TypeU32},
					},
				},
				{
					Name: "Throttle", Cardinality: Single,
					Fields: []Field{
						{Name: "GenCounter", Type: TypeU32},
						{Name: "Throttles", Type: TypeFixedBytes, FixedLen: 28},
					},
				},
			},
		},
		{
			Name: "AgentFOV", ID: 82, Frequency: High, ZeroCoded: false,
			Blocks: []Block{
				{
					Name: "AgentData", Cardinality: Single,
					Fields: []Field{
						{Name: "AgentID", Type: TypeUUID},
						{Name: "SessionID", Type: TypeUUID},
						{Name: "CircuitCode", Type: TypeU32},
					},
				},
				{
					Name: "FOVBlock", Cardinality: Single,
					Fields: []Field{
						{Name: "GenCounter", Type: TypeU32},
						{Name: "VerticalAngle", Type: TypeF32},
					},
				},
			},
		},
		{
			Name: "AgentHeightWidth", ID: 83, Frequency: High, ZeroCoded: false,
			Blocks: []Block{
				{
					Name: "AgentData", Cardinality: Single,
					Fields: []Field{
						{Name: "AgentID", Type: TypeUUID},
						{Name: "SessionID", Type: TypeUUID},
						{Name: "CircuitCode", Type: TypeU32},
					},
				},
				{
					Name: "HeightWidthBlock", Cardinality: Single,
					Fields: []Field{
						{Name: "GenCounter", Type: TypeU32},
						{Name: "Height", Type: TypeU16},
						{Name: "Width", Type: TypeU16},
					},
				},
			},
		},
		{
			Name: "ChatFromSimulator", ID: 139, Frequency: High, ZeroCoded: false,
			Blocks: []Block{{
				Name: "ChatData", Cardinality: Single,
				Fields: []Field{
					{Name: "FromName", Type: TypeLatinString1},
					{Name: "SourceID", Type: TypeUUID},
					{Name: "OwnerID", Type: TypeUUID},
					{Name: "SourceType", Type: TypeU8},
					{Name: "ChatType", Type: TypeU8},
					{Name: "Audible", Type: TypeU8},
					{Name: "Position", Type: TypeVector3},
					{Name: "Message", Type: TypeLatinString2},
				},
			}},
		},
		{
			Name: "RegionHandshake", ID: 148, Frequency: High, ZeroCoded: true,
			Blocks: []Block{{
				Name: "RegionInfo", Cardinality: Single,
				Fields: []Field{
					{Name: "RegionFlags", Type: TypeU32},
					{Name: "SimAccess", Type: TypeU8},
					{Name: "SimName", Type: TypeLatinString1},
					{Name: "SimOwner", Type: TypeUUID},
					{Name: "IsEstateManager", Type: TypeBool},
					{Name: "WaterHeight", Type: TypeF32},
					{Name: "BillableFactor", Type: TypeF32},
					{Name: "CacheID", Type: TypeUUID},
					{Name: "RegionHandle", Type: TypeU64},
				},
			}},
		},
		{
			Name: "RegionHandshakeReply", ID: 149, Frequency: High, ZeroCoded: true,
			Blocks: []Block{
				agentSessionBlock("AgentData"),
				{
					Name: "RegionInfo", Cardinality: Single,
					Fields: []Field{{Name: "Flags", Type: TypeU32}},
				},
			},
		},
		{
			Name: "ImprovedInstantMessage", ID: 254, Frequency: High, ZeroCoded: true,
			Blocks: []Block{
				agentSessionBlock("AgentData"),
				{
					Name: "MessageBlock", Cardinality: Single,
					Fields: []Field{
						{Name: "FromGroup", Type: TypeBool},
						{Name: "ToAgentID", Type: TypeUUID},
						{Name: "ParentEstateID", Type: TypeU32},
						{Name: "RegionID", Type: TypeUUID},
						{Name: "Position", Type: TypeVector3},
						{Name: "Dialog", Type: TypeU8},
						{Name: "FromAgentName", Type: TypeLatinString1},
						{Name: "Message", Type: TypeLatinString2},
						{Name: "BinaryBucket", Type: TypeVarBytes2},
					},
				},
			},
		},
		{
			Name: "TeleportFinish", ID: 69, Frequency: High, ZeroCoded: false,
			Blocks: []Block{{
				Name: "Info", Cardinality: Single,
				Fields: []Field{
					{Name: "AgentID", Type: TypeUUID},
					{Name: "LocationID", Type: TypeU32},
					{Name: "SimIP", Type: TypeIPv4},
					{Name: "SimPort", Type: TypePortLE},
					{Name: "RegionHandle", Type: TypeU64},
					{Name: "SeedCapability", Type: TypeLatinString2},
					{Name: "SimAccess", Type: TypeU8},
					{Name: "Flags", Type: TypeU32},
				},
			}},
		},
		// TeleportLocationRequest: reconstructed per spec.md §9's Open
		// Question — the schema is not fully specified upstream, but
		// teleport-by-coordinate is required by the uri:Name&X&Y&Z
		// start-location form (spec.md §6.1), so this is the minimal
		// schema that form needs: a region handle plus the position
		// and look-at vector the real protocol's message carries.
		{
			Name: "TeleportLocationRequest", ID: 63, Frequency: High, ZeroCoded: true,
			Blocks: []Block{
				agentSessionBlock("AgentData"),
				{
					Name: "Info", Cardinality: Single,
					Fields: []Field{
						{Name: "RegionHandle", Type: TypeU64},
						{Name: "Position", Type: TypeVector3},
						{Name: "LookAt", Type: TypeVector3},
					},
				},
			},
		},
		{
			Name: "CompleteAgentMovement", ID: idCompleteAgentMovement, Frequency: Fixed, ZeroCoded: false,
			Blocks: []Block{{
				Name: "AgentData", Cardinality: Single,
				Fields: []Field{
					{Name: "AgentID", Type: TypeUUID},
					{Name: "SessionID", Type: TypeUUID},
					{Name: "CircuitCode", Type: TypeU32},
				},
			}},
		},
		{
			Name: "LogoutRequest", ID: idLogoutRequest, Frequency: Fixed, ZeroCoded: false,
			Blocks: []Block{agentSessionBlock("AgentData")},
		},
		{
			Name: "PacketAck", ID: idPacketAck, Frequency: Fixed, ZeroCoded: false,
			Blocks: []Block{{
				Name: "Packets", Cardinality: Variable,
				Fields: []Field{{Name: "ID", Type: TypeU32}},
			}},
		},
		{
			Name: "CloseCircuit", ID: idCloseCircuit, Frequency: Fixed, ZeroCoded: false,
			Blocks: nil,
		},
	}
}
