package iis2dlpc

import "fmt"

// StandardGravity in µm/s².
const StandardGravity = 9806650

// sensitivity of the 2g range on the 14-bit right-justified sample in µg/LSB.
const gain2g = 244

// Value is a fixed point reading: Val1 is the integer part and Val2 the millionths.
// Both parts carry the sign of the value.
type Value struct {
	Val1 int32
	Val2 int32
}

func (v Value) Micro() int64 {
	return int64(v.Val1)*1000000 + int64(v.Val2)
}

func (v Value) Float64() float64 {
	return float64(v.Val1) + float64(v.Val2)/1000000
}

func (v Value) String() string {
	if v.Val1 < 0 || v.Val2 < 0 {
		m := -v.Micro()
		return fmt.Sprintf("-%d.%06d", m/1000000, m%1000000)
	}
	return fmt.Sprintf("%d.%06d", v.Val1, v.Val2)
}

func ValueFromMicro(micro int64) Value {
	return Value{Val1: int32(micro / 1000000), Val2: int32(micro % 1000000)}
}

// MS2ToG rounds an acceleration in m/s² to the nearest whole g.
func MS2ToG(v Value) int {
	micro := v.Micro()
	if micro > 0 {
		return int((micro + StandardGravity/2) / StandardGravity)
	}
	return int((micro - StandardGravity/2) / StandardGravity)
}

// Scale returns the sample shift and the sensitivity in µg/LSB for a full scale and power mode.
// Low-power mode 1 delivers 12-bit samples, every other mode 14-bit.
func Scale(fs FullScale, mode PowerMode) (shift uint8, gain uint32) {
	if mode.Is12bit() {
		return 4, (gain2g << 2) << fs
	}
	return 2, gain2g << fs
}

// ConvertAccel converts a right-justified sample to m/s².
func ConvertAccel(raw int16, gain uint32) Value {
	return ValueFromMicro(int64(raw) * int64(gain) * StandardGravity / 1000000)
}

// RawFromAccel inverts ConvertAccel, rounding to the nearest count.
func RawFromAccel(v Value, gain uint32) int16 {
	num := v.Micro() * 1000000
	den := int64(gain) * StandardGravity
	if num < 0 {
		return int16((num - den/2) / den)
	}
	return int16((num + den/2) / den)
}

// ConvertTemperature converts the left-justified OUT_T word to °C.
func ConvertTemperature(raw int16) Value {
	return ValueFromMicro(int64(raw>>4)*1000000/16 + 25000000)
}

// MilliG converts a left-justified output word to mg using the datasheet sensitivity table.
func MilliG(raw int16, fs FullScale) float64 {
	return float64(raw) * 0.061 * float64(int(1)<<fs)
}

// Celsius converts the left-justified OUT_T word to °C.
func Celsius(raw int16) float64 {
	return float64(raw>>4)/16 + 25
}
