package mpr121

const DefaultAddress = 0x5A

// Registers
const (
	regTouchStatus = 0x00 // 2 bytes, electrodes 0-11 plus proximity in bit 12
	regMHDR        = 0x2B // rising filter: max half delta
	regNHDR        = 0x2C // rising filter: noise half delta
	regNCLR        = 0x2D // rising filter: noise count limit
	regFDLR        = 0x2E // rising filter: filter delay limit
	regMHDF        = 0x2F // falling filter
	regNHDF        = 0x30
	regNCLF        = 0x31
	regFDLF        = 0x32
	regNHDT        = 0x33 // touched filter
	regNCLT        = 0x34
	regFDLT        = 0x35
	regTouchTh0    = 0x41 // touch threshold electrode 0, release follows, then electrode 1...
	regReleaseTh0  = 0x42
	regDebounce    = 0x5B
	regConfig1     = 0x5C
	regConfig2     = 0x5D
	regECR         = 0x5E // electrode configuration, writing non-zero enters run mode
	regAutoConfig0 = 0x7B
	regUpLimit     = 0x7D
	regLowLimit    = 0x7E
	regTargetLimit = 0x7F
	regSoftReset   = 0x80
)

const (
	softResetMagic = 0x63
	electrodes     = 12
)
