package iis2dlpc

import (
	"fmt"
	"strings"
)

// PowerMode packs CTRL6.low_noise, CTRL1.mode and CTRL1.lp_mode as low_noise<<4 | mode<<2 | lp_mode.
type PowerMode byte

const (
	HighPerformance             PowerMode = 0x04
	ContLowPower4               PowerMode = 0x03
	ContLowPower3               PowerMode = 0x02
	ContLowPower2               PowerMode = 0x01
	ContLowPower12bit           PowerMode = 0x00
	SingleLowPower4             PowerMode = 0x0B
	SingleLowPower3             PowerMode = 0x0A
	SingleLowPower2             PowerMode = 0x09
	SingleLowPower12bit         PowerMode = 0x08
	HighPerformanceLowNoise     PowerMode = 0x14
	ContLowPowerLowNoise4       PowerMode = 0x13
	ContLowPowerLowNoise3       PowerMode = 0x12
	ContLowPowerLowNoise2       PowerMode = 0x11
	ContLowPowerLowNoise12bit   PowerMode = 0x10
	SingleLowPowerLowNoise4     PowerMode = 0x1B
	SingleLowPowerLowNoise3     PowerMode = 0x1A
	SingleLowPowerLowNoise2     PowerMode = 0x19
	SingleLowPowerLowNoise12bit PowerMode = 0x18
)

// PowerModes lists every power mode the device accepts.
var PowerModes = []PowerMode{
	HighPerformance, ContLowPower4, ContLowPower3, ContLowPower2, ContLowPower12bit,
	SingleLowPower4, SingleLowPower3, SingleLowPower2, SingleLowPower12bit,
	HighPerformanceLowNoise, ContLowPowerLowNoise4, ContLowPowerLowNoise3, ContLowPowerLowNoise2,
	ContLowPowerLowNoise12bit, SingleLowPowerLowNoise4, SingleLowPowerLowNoise3,
	SingleLowPowerLowNoise2, SingleLowPowerLowNoise12bit,
}

var powerModeNames = map[PowerMode]string{
	HighPerformance:             "high-performance",
	ContLowPower4:               "cont-lp4",
	ContLowPower3:               "cont-lp3",
	ContLowPower2:               "cont-lp2",
	ContLowPower12bit:           "cont-lp1",
	SingleLowPower4:             "single-lp4",
	SingleLowPower3:             "single-lp3",
	SingleLowPower2:             "single-lp2",
	SingleLowPower12bit:         "single-lp1",
	HighPerformanceLowNoise:     "high-performance-ln",
	ContLowPowerLowNoise4:       "cont-lp4-ln",
	ContLowPowerLowNoise3:       "cont-lp3-ln",
	ContLowPowerLowNoise2:       "cont-lp2-ln",
	ContLowPowerLowNoise12bit:   "cont-lp1-ln",
	SingleLowPowerLowNoise4:     "single-lp4-ln",
	SingleLowPowerLowNoise3:     "single-lp3-ln",
	SingleLowPowerLowNoise2:     "single-lp2-ln",
	SingleLowPowerLowNoise12bit: "single-lp1-ln",
}

func (m PowerMode) String() string {
	if n, ok := powerModeNames[m]; ok {
		return n
	}
	return fmt.Sprintf("PowerMode(0x%02x)", byte(m))
}

// Is12bit reports whether the mode is low-power mode 1, the only one producing 12-bit samples.
func (m PowerMode) Is12bit() bool {
	return byte(m)&0x03 == 0 && (byte(m)&0x0C)>>2 != 1
}

func ParsePowerMode(s string) (PowerMode, error) {
	for m, n := range powerModeNames {
		if strings.EqualFold(n, s) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("power mode %q: %w", s, ErrInvalidValue)
}

// ODR packs CTRL3.slp_mode and CTRL1.odr as slp_mode<<4 | odr.
type ODR byte

const (
	ODROff             ODR = 0x00
	ODR1Hz6            ODR = 0x01 // low-power modes only
	ODR12Hz5           ODR = 0x02
	ODR25Hz            ODR = 0x03
	ODR50Hz            ODR = 0x04
	ODR100Hz           ODR = 0x05
	ODR200Hz           ODR = 0x06
	ODR400Hz           ODR = 0x07
	ODR800Hz           ODR = 0x08
	ODR1k6Hz           ODR = 0x09
	ODRSoftwareTrigger ODR = 0x10
	ODRPinTrigger      ODR = 0x20
)

var ODRs = []ODR{
	ODROff, ODR1Hz6, ODR12Hz5, ODR25Hz, ODR50Hz, ODR100Hz, ODR200Hz, ODR400Hz, ODR800Hz, ODR1k6Hz,
	ODRSoftwareTrigger, ODRPinTrigger,
}

var odrNames = map[ODR]string{
	ODROff:             "off",
	ODR1Hz6:            "1.6Hz",
	ODR12Hz5:           "12.5Hz",
	ODR25Hz:            "25Hz",
	ODR50Hz:            "50Hz",
	ODR100Hz:           "100Hz",
	ODR200Hz:           "200Hz",
	ODR400Hz:           "400Hz",
	ODR800Hz:           "800Hz",
	ODR1k6Hz:           "1600Hz",
	ODRSoftwareTrigger: "sw-trigger",
	ODRPinTrigger:      "pin-trigger",
}

func (o ODR) String() string {
	if n, ok := odrNames[o]; ok {
		return n
	}
	return fmt.Sprintf("ODR(0x%02x)", byte(o))
}

// ODRFromHz maps a sampling frequency in Hz to a data rate, rounding down to the nearest
// 25·2^n Hz step. 0 powers the device off and 13 to 24 Hz selects 25 Hz.
func ODRFromHz(hz uint16) (ODR, error) {
	switch {
	case hz == 0:
		return ODROff, nil
	case hz <= 1:
		return ODR1Hz6, nil
	case hz <= 12:
		return ODR12Hz5, nil
	case hz > 1600:
		return 0, fmt.Errorf("%d Hz: %w", hz, ErrNotSupported)
	}
	odr := ODR25Hz
	for rate := uint16(50); rate <= hz; rate <<= 1 {
		odr++
	}
	return odr, nil
}

// FullScale is CTRL6.fs.
type FullScale byte

const (
	FullScale2g  FullScale = 0
	FullScale4g  FullScale = 1
	FullScale8g  FullScale = 2
	FullScale16g FullScale = 3
)

func (fs FullScale) G() int {
	return 2 << fs
}

func (fs FullScale) String() string {
	return fmt.Sprintf("%dg", fs.G())
}

// FullScaleFromG maps a range in g to the matching full scale.
func FullScaleFromG(g int) (FullScale, error) {
	switch g {
	case 2:
		return FullScale2g, nil
	case 4:
		return FullScale4g, nil
	case 8:
		return FullScale8g, nil
	case 16:
		return FullScale16g, nil
	}
	return 0, fmt.Errorf("%d g: %w", g, ErrInvalidValue)
}

// FilterPath packs CTRL6.fds and CTRL_REG7.usr_off_on_out as fds<<4 | usr_off_on_out.
type FilterPath byte

const (
	LowPassOnOut    FilterPath = 0x00
	UserOffsetOnOut FilterPath = 0x01
	HighPassOnOut   FilterPath = 0x10
)

// Bandwidth is CTRL6.bw_filt.
type Bandwidth byte

const (
	ODRDiv2  Bandwidth = 0
	ODRDiv4  Bandwidth = 1
	ODRDiv10 Bandwidth = 2
	ODRDiv20 Bandwidth = 3
)

// SelfTest is CTRL3.st.
type SelfTest byte

const (
	SelfTestDisabled SelfTest = 0
	SelfTestPositive SelfTest = 1
	SelfTestNegative SelfTest = 2
)

type DataReadyMode byte

const (
	DataReadyLatched DataReadyMode = 0
	DataReadyPulsed  DataReadyMode = 1
)

type SPIMode byte

const (
	SPI4Wire SPIMode = 0
	SPI3Wire SPIMode = 1
)

type I2CInterface byte

const (
	I2CEnable  I2CInterface = 0
	I2CDisable I2CInterface = 1
)

type CSPullUp byte

const (
	CSPullUpConnected    CSPullUp = 0
	CSPullUpDisconnected CSPullUp = 1
)

type Polarity byte

const (
	ActiveHigh Polarity = 0
	ActiveLow  Polarity = 1
)

// Notification is CTRL3.lir.
type Notification byte

const (
	IntPulsed  Notification = 0
	IntLatched Notification = 1
)

type PinMode byte

const (
	PushPull  PinMode = 0
	OpenDrain PinMode = 1
)

// OffsetWeight is the LSB weight of the user offset registers.
type OffsetWeight byte

const (
	OffsetLSb977ug OffsetWeight = 0
	OffsetLSb15mg6 OffsetWeight = 1
)

type WakeUpFeed byte

const (
	WakeUpFeedHighPass   WakeUpFeed = 0
	WakeUpFeedUserOffset WakeUpFeed = 1
)

// ActivityMode packs WAKE_UP_DUR.stationary and WAKE_UP_THS.sleep_on as stationary<<1 | sleep_on.
type ActivityMode byte

const (
	NoDetection      ActivityMode = 0
	DetectActInact   ActivityMode = 1
	DetectStatMotion ActivityMode = 3
)

type TapPriority byte

const (
	TapPriorityXYZ TapPriority = 0
	TapPriorityYXZ TapPriority = 1
	TapPriorityXZY TapPriority = 2
	TapPriorityZYX TapPriority = 3
	TapPriorityYZX TapPriority = 5
	TapPriorityZXY TapPriority = 6
)

type TapMode byte

const (
	TapOnlySingle   TapMode = 0
	TapSingleDouble TapMode = 1
)

type SixDFeed byte

const (
	SixDFeedODRDiv2 SixDFeed = 0
	SixDFeedLPF2    SixDFeed = 1
)

// FreeFallThreshold is FREE_FALL.ff_ths, named after the threshold in 31.25 mg LSBs.
type FreeFallThreshold byte

const (
	FreeFall5LSB  FreeFallThreshold = 0
	FreeFall7LSB  FreeFallThreshold = 1
	FreeFall8LSB  FreeFallThreshold = 2
	FreeFall10LSB FreeFallThreshold = 3
	FreeFall11LSB FreeFallThreshold = 4
	FreeFall13LSB FreeFallThreshold = 5
	FreeFall15LSB FreeFallThreshold = 6
	FreeFall16LSB FreeFallThreshold = 7
)

type FIFOMode byte

const (
	FIFOBypass         FIFOMode = 0
	FIFOMode1          FIFOMode = 1
	FIFOStreamToFIFO   FIFOMode = 3
	FIFOBypassToStream FIFOMode = 4
	FIFOStream         FIFOMode = 6
)
