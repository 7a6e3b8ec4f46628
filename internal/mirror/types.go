// internal/mirror/types.go
package mirror

// Plan is the fully-built mirror plan: one endpoint, one unit, two blocks.
type Plan struct {
	Endpoint      string
	UnitID        uint8
	BaseAddress   uint16 // readings block (SlotsPerReadings registers)
	StatusAddress uint16 // status block (status.SlotsPerBlock registers)
	DeviceName    string
	ModeCode      uint16
}

// RegisterClient is the exact contract the mirror uses.
type RegisterClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

// Observer is told about every write attempt. kind is "readings" or "status".
type Observer interface {
	ObserveMirrorWrite(kind string, err error)
}
