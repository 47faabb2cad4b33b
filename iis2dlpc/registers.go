package iis2dlpc

// Register map (datasheet DocID031322).
const (
	RegOutTL            byte = 0x0D
	RegOutTH            byte = 0x0E
	RegWhoAmI           byte = 0x0F
	RegCtrl1            byte = 0x20
	RegCtrl2            byte = 0x21
	RegCtrl3            byte = 0x22
	RegCtrl4Int1PadCtrl byte = 0x23
	RegCtrl5Int2PadCtrl byte = 0x24
	RegCtrl6            byte = 0x25
	RegOutT             byte = 0x26
	RegStatus           byte = 0x27
	RegOutXL            byte = 0x28
	RegOutXH            byte = 0x29
	RegOutYL            byte = 0x2A
	RegOutYH            byte = 0x2B
	RegOutZL            byte = 0x2C
	RegOutZH            byte = 0x2D
	RegFIFOCtrl         byte = 0x2E
	RegFIFOSamples      byte = 0x2F
	RegTapThsX          byte = 0x30
	RegTapThsY          byte = 0x31
	RegTapThsZ          byte = 0x32
	RegIntDur           byte = 0x33
	RegWakeUpThs        byte = 0x34
	RegWakeUpDur        byte = 0x35
	RegFreeFall         byte = 0x36
	RegStatusDup        byte = 0x37
	RegWakeUpSrc        byte = 0x38
	RegTapSrc           byte = 0x39
	RegSixDSrc          byte = 0x3A
	RegAllIntSrc        byte = 0x3B
	RegXOfsUsr          byte = 0x3C
	RegYOfsUsr          byte = 0x3D
	RegZOfsUsr          byte = 0x3E
	RegCtrl7            byte = 0x3F
)

// DeviceID is the fixed content of WHO_AM_I.
const DeviceID byte = 0x44

// field is a contiguous group of bits inside a register byte.
type field struct {
	shift uint8
	width uint8
}

func (f field) mask() byte {
	return byte((1<<f.width)-1) << f.shift
}

func (f field) get(b byte) byte {
	return (b & f.mask()) >> f.shift
}

// set returns b with the field replaced by v. Bits of v above the field width are dropped.
func (f field) set(b byte, v byte) byte {
	return b&^f.mask() | (v<<f.shift)&f.mask()
}

func (f field) flag(b byte) bool {
	return f.get(b) != 0
}

func (f field) setFlag(b byte, v bool) byte {
	return f.set(b, boolBit(v))
}

func boolBit(v bool) byte {
	if v {
		return 1
	}
	return 0
}

// CTRL1
var (
	ctrl1LPMode = field{0, 2}
	ctrl1Mode   = field{2, 2}
	ctrl1ODR    = field{4, 4}
)

// CTRL2
var (
	ctrl2SIM        = field{0, 1}
	ctrl2I2CDisable = field{1, 1}
	ctrl2IfAddInc   = field{2, 1}
	ctrl2BDU        = field{3, 1}
	ctrl2CSPUDisc   = field{4, 1}
	ctrl2SoftReset  = field{6, 1}
	ctrl2Boot       = field{7, 1}
)

// CTRL3
var (
	ctrl3SlpMode  = field{0, 2}
	ctrl3HLActive = field{3, 1}
	ctrl3LIR      = field{4, 1}
	ctrl3PPOD     = field{5, 1}
	ctrl3ST       = field{6, 2}
)

// CTRL4_INT1_PAD_CTRL
var (
	int1DRDY      = field{0, 1}
	int1FTH       = field{1, 1}
	int1Diff5     = field{2, 1}
	int1Tap       = field{3, 1}
	int1FF        = field{4, 1}
	int1WU        = field{5, 1}
	int1SingleTap = field{6, 1}
	int16D        = field{7, 1}
)

// CTRL5_INT2_PAD_CTRL
var (
	int2DRDY       = field{0, 1}
	int2FTH        = field{1, 1}
	int2Diff5      = field{2, 1}
	int2OVR        = field{3, 1}
	int2DRDYT      = field{4, 1}
	int2Boot       = field{5, 1}
	int2SleepChg   = field{6, 1}
	int2SleepState = field{7, 1}
)

// CTRL6
var (
	ctrl6LowNoise = field{2, 1}
	ctrl6FDS      = field{3, 1}
	ctrl6FS       = field{4, 2}
	ctrl6BWFilt   = field{6, 2}
)

// STATUS
var (
	statusDRDY       = field{0, 1}
	statusFFIA       = field{1, 1}
	status6DIA       = field{2, 1}
	statusSingleTap  = field{3, 1}
	statusDoubleTap  = field{4, 1}
	statusSleepState = field{5, 1}
	statusWUIA       = field{6, 1}
	statusFIFOThs    = field{7, 1}
)

// FIFO_CTRL and FIFO_SAMPLES
var (
	fifoCtrlFTH     = field{0, 5}
	fifoCtrlFMode   = field{5, 3}
	fifoSamplesDiff = field{0, 6}
	fifoSamplesOVR  = field{6, 1}
	fifoSamplesFTH  = field{7, 1}
)

// TAP_THS_X, TAP_THS_Y, TAP_THS_Z
var (
	tapThsXThs   = field{0, 5}
	tapThsX6DThs = field{5, 2}
	tapThsX4DEn  = field{7, 1}
	tapThsYThs   = field{0, 5}
	tapThsYPrior = field{5, 3}
	tapThsZThs   = field{0, 5}
	tapThsZZEn   = field{5, 1}
	tapThsZYEn   = field{6, 1}
	tapThsZXEn   = field{7, 1}
)

// INT_DUR
var (
	intDurShock   = field{0, 2}
	intDurQuiet   = field{2, 2}
	intDurLatency = field{4, 4}
)

// WAKE_UP_THS
var (
	wakeUpThsWkThs           = field{0, 6}
	wakeUpThsSleepOn         = field{6, 1}
	wakeUpThsSingleDoubleTap = field{7, 1}
)

// WAKE_UP_DUR
var (
	wakeUpDurSleepDur   = field{0, 4}
	wakeUpDurStationary = field{4, 1}
	wakeUpDurWakeDur    = field{5, 2}
	wakeUpDurFFDur      = field{7, 1}
)

// FREE_FALL
var (
	freeFallThs = field{0, 3}
	freeFallDur = field{3, 5}
)

// STATUS_DUP
var (
	statusDupDRDY         = field{0, 1}
	statusDupFFIA         = field{1, 1}
	statusDup6DIA         = field{2, 1}
	statusDupSingleTap    = field{3, 1}
	statusDupDoubleTap    = field{4, 1}
	statusDupSleepStateIA = field{5, 1}
	statusDupDRDYT        = field{6, 1}
	statusDupOVR          = field{7, 1}
)

// WAKE_UP_SRC
var (
	wakeUpSrcZWU          = field{0, 1}
	wakeUpSrcYWU          = field{1, 1}
	wakeUpSrcXWU          = field{2, 1}
	wakeUpSrcWUIA         = field{3, 1}
	wakeUpSrcSleepStateIA = field{4, 1}
	wakeUpSrcFFIA         = field{5, 1}
)

// TAP_SRC
var (
	tapSrcZTap      = field{0, 1}
	tapSrcYTap      = field{1, 1}
	tapSrcXTap      = field{2, 1}
	tapSrcSign      = field{3, 1}
	tapSrcDoubleTap = field{4, 1}
	tapSrcSingleTap = field{5, 1}
	tapSrcTapIA     = field{6, 1}
)

// SIXD_SRC
var (
	sixDSrcXL   = field{0, 1}
	sixDSrcXH   = field{1, 1}
	sixDSrcYL   = field{2, 1}
	sixDSrcYH   = field{3, 1}
	sixDSrcZL   = field{4, 1}
	sixDSrcZH   = field{5, 1}
	sixDSrc6DIA = field{6, 1}
)

// ALL_INT_SRC
var (
	allIntSrcFFIA          = field{0, 1}
	allIntSrcWUIA          = field{1, 1}
	allIntSrcSingleTap     = field{2, 1}
	allIntSrcDoubleTap     = field{3, 1}
	allIntSrc6DIA          = field{4, 1}
	allIntSrcSleepChangeIA = field{5, 1}
)

// CTRL_REG7
var (
	ctrl7LPassOn6D        = field{0, 1}
	ctrl7HPRefMode        = field{1, 1}
	ctrl7UsrOffW          = field{2, 1}
	ctrl7UsrOffOnWU       = field{3, 1}
	ctrl7UsrOffOnOut      = field{4, 1}
	ctrl7InterruptsEnable = field{5, 1}
	ctrl7Int2OnInt1       = field{6, 1}
	ctrl7DRDYPulsed       = field{7, 1}
)
