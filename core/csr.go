package core

// CSR addresses implemented by the ApexCore machine-mode register space.
const (
	CSRMVendorID uint16 = 0xF11
	CSRMArchID   uint16 = 0xF12
	CSRMImpID    uint16 = 0xF13
	CSRMHartID   uint16 = 0xF14
	CSRMStatus   uint16 = 0x300
	CSRMISA      uint16 = 0x301
	CSRMIE       uint16 = 0x304
	CSRMTVec     uint16 = 0x305
	CSRMScratch  uint16 = 0x340
	CSRMEPC      uint16 = 0x341
	CSRMCause    uint16 = 0x342
	CSRMTVal     uint16 = 0x343
	CSRMIP       uint16 = 0x344
)

// mstatus bit layout (machine mode subset).
const (
	mstatusMIE      uint32 = 1 << 3
	mstatusMPIE     uint32 = 1 << 7
	mstatusMPPShift        = 11
	mstatusMPPMask  uint32 = 3 << mstatusMPPShift
)

// mie bit layout: software, timer and external interrupt enables.
const (
	mieMSIE uint32 = 1 << 3
	mieMTIE uint32 = 1 << 7
	mieMEIE uint32 = 1 << 11
)

// mcause layout: interrupt/exception type bit plus a 4-bit cause code.
const (
	causeInterruptBit uint32 = 1 << 31
	causeCodeMask     uint32 = 0xF
)

// Synchronous trap cause codes.
const (
	CauseBreakpoint uint8 = 3
	CauseECall      uint8 = 11
)

// PrivMachine is the only privilege level this design implements.
const PrivMachine uint8 = 0b11

// misaRV32IMA encodes RV32 (MXL=1) with the I, M and A extensions.
const misaRV32IMA uint32 = 1<<30 | 1<<8 | 1<<12 | 1<<0

// CSRUnit owns the 4096-entry control/status register space and the
// processor status state that a small fixed subset of addresses shadows.
// Reads are gated by a per-cycle read-enable; writes and trap entry/exit
// latch and commit at the next Tick.
type CSRUnit struct {
	regs [4096]uint32

	readEnable bool

	writePending bool
	writeAddr    uint16
	writeValue   uint32

	trapPending   bool
	trapCause     uint8
	trapPC        uint32
	returnPending bool

	// Shadow status bits (persist across instructions).
	mie  bool // live interrupt enable
	mpie bool // previous interrupt enable
	mpp  uint8
	meie bool // external interrupt enable mask
	mtie bool // timer
	msie bool // software

	causeInterrupt bool
	causeCode      uint8
	trapActive     bool
}

// NewCSRUnit creates a CSR unit in its reset state: interrupts disabled,
// previous-interrupt-enable permissive, privilege fixed at machine mode.
func NewCSRUnit() *CSRUnit {
	c := &CSRUnit{
		mpie: true,
		mpp:  PrivMachine,
	}
	c.regs[CSRMISA] = misaRV32IMA
	c.regs[CSRMStatus] = c.encodeStatus()
	return c
}

// SetReadEnable drives the per-cycle CSR read-enable signal.
func (c *CSRUnit) SetReadEnable(enable bool) {
	c.readEnable = enable
}

// Read returns the addressed register, or 0 when the sequencer is not
// asserting CSR read-enable this cycle.
func (c *CSRUnit) Read(addr uint16) uint32 {
	if !c.readEnable {
		return 0
	}
	return c.regs[addr&0xFFF]
}

// Write latches a register write that commits at the next Tick. Writes
// with enable deasserted are dropped.
func (c *CSRUnit) Write(addr uint16, value uint32, enable bool) {
	if !enable {
		return
	}
	c.writePending = true
	c.writeAddr = addr & 0xFFF
	c.writeValue = value
}

// RequestTrap latches a synchronous trap entry for the given cause, taken
// at the next Tick. pc is the address of the trapping instruction and is
// saved into mepc. A request while a trap is already active or pending is
// ignored and reported as not accepted, so the caller can fall through
// instead of re-vectoring.
func (c *CSRUnit) RequestTrap(cause uint8, pc uint32) bool {
	if c.trapActive || c.trapPending {
		return false
	}
	c.trapPending = true
	c.trapCause = cause
	c.trapPC = pc
	return true
}

// TrapReturn latches a trap exit, applied at the next Tick.
func (c *CSRUnit) TrapReturn() {
	c.returnPending = true
}

// Tick commits the latched register write and advances trap state.
func (c *CSRUnit) Tick() {
	if c.writePending {
		c.writePending = false
		c.commitWrite(c.writeAddr, c.writeValue)
	}

	if c.trapPending {
		c.trapPending = false
		c.mpie = c.mie
		c.mie = false
		c.mpp = PrivMachine
		c.causeInterrupt = false
		c.causeCode = c.trapCause
		c.trapActive = true
		c.regs[CSRMStatus] = c.encodeStatus()
		c.regs[CSRMCause] = c.encodeCause()
		c.regs[CSRMEPC] = c.trapPC
	}

	if c.returnPending {
		c.returnPending = false
		c.mie = c.mpie
		c.mpie = true
		c.mpp = PrivMachine
		c.trapActive = false
		c.regs[CSRMStatus] = c.encodeStatus()
	}
}

// commitWrite stores the value, decoding the shadowed addresses into the
// processor status bits. For shadowed registers only the modeled bits
// persist in the cell.
func (c *CSRUnit) commitWrite(addr uint16, value uint32) {
	switch addr {
	case CSRMStatus:
		c.mie = value&mstatusMIE != 0
		c.mpie = value&mstatusMPIE != 0
		c.mpp = uint8((value & mstatusMPPMask) >> mstatusMPPShift)
		c.regs[addr] = c.encodeStatus()
	case CSRMIE:
		c.msie = value&mieMSIE != 0
		c.mtie = value&mieMTIE != 0
		c.meie = value&mieMEIE != 0
		c.regs[addr] = value & (mieMSIE | mieMTIE | mieMEIE)
	case CSRMCause:
		c.causeInterrupt = value&causeInterruptBit != 0
		c.causeCode = uint8(value & causeCodeMask)
		c.regs[addr] = c.encodeCause()
	default:
		c.regs[addr] = value
	}
}

func (c *CSRUnit) encodeStatus() uint32 {
	var v uint32
	if c.mie {
		v |= mstatusMIE
	}
	if c.mpie {
		v |= mstatusMPIE
	}
	v |= uint32(c.mpp) << mstatusMPPShift
	return v
}

func (c *CSRUnit) encodeCause() uint32 {
	v := uint32(c.causeCode) & causeCodeMask
	if c.causeInterrupt {
		v |= causeInterruptBit
	}
	return v
}

// TrapDetected is the observable flag the surrounding system polls to
// redirect control flow into the trap handler.
func (c *CSRUnit) TrapDetected() bool {
	return c.trapActive
}

// InterruptEnable returns the live interrupt-enable bit.
func (c *CSRUnit) InterruptEnable() bool {
	return c.mie
}

// PreviousInterruptEnable returns the saved interrupt-enable bit.
func (c *CSRUnit) PreviousInterruptEnable() bool {
	return c.mpie
}

// PreviousPrivilege returns the previous privilege level. This design
// fixes it at machine mode.
func (c *CSRUnit) PreviousPrivilege() uint8 {
	return c.mpp
}

// Cause returns the recorded trap cause: the interrupt/exception type bit
// and the 4-bit cause code.
func (c *CSRUnit) Cause() (interrupt bool, code uint8) {
	return c.causeInterrupt, c.causeCode
}

// InterruptMask returns the external, timer and software enable bits.
func (c *CSRUnit) InterruptMask() (external, timer, software bool) {
	return c.meie, c.mtie, c.msie
}

// TrapVector returns the committed mtvec value. The surrounding system
// uses it as the handler address; it is not gated by read-enable.
func (c *CSRUnit) TrapVector() uint32 {
	return c.regs[CSRMTVec]
}

// ExceptionPC returns the committed mepc value, ungated.
func (c *CSRUnit) ExceptionPC() uint32 {
	return c.regs[CSRMEPC]
}
