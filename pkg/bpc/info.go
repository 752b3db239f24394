package bpc

// ChipInfo is static metadata about the receiver chip this decoder
// targets. It carries no decode state and requires no Decoder.
type ChipInfo struct {
	ChipName         string
	ManufacturerName string
	Interface        string
	SupplyVoltageMin float32
	SupplyVoltageMax float32
	MaxCurrentMA     float32
	TemperatureMin   float32
	TemperatureMax   float32
	DriverVersion    uint32
}

// Info returns the fixed chip metadata for the BPC receiver front-end
// this package decodes against.
func Info() ChipInfo {
	return ChipInfo{
		ChipName:         "China BPC",
		ManufacturerName: "China",
		Interface:        "GPIO",
		SupplyVoltageMin: 2.7,
		SupplyVoltageMax: 5.5,
		MaxCurrentMA:     1.5,
		TemperatureMin:   -40.0,
		TemperatureMax:   125.0,
		DriverVersion:    1000,
	}
}
